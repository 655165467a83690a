package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/app"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/storage"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	selectMenus  [][]string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectMenus = append(s.selectMenus, cfg.Options)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) sawInfo(fragment string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func newRenderer(t *testing.T, driver *stubDriver) *Renderer {
	t.Helper()
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func newStore(t *testing.T) (*builder.Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory(nil)
	slot, err := storage.NewSlot(kv)
	if err != nil {
		t.Fatalf("slot: %v", err)
	}
	store, err := builder.New(context.Background(), slot)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return store, kv
}

func testerForm() model.Form {
	return model.Form{Questions: []model.Question{
		{ID: 1, Text: "Code", Type: model.QuestionTypeText, Validation: []model.Validation{
			{Type: model.ValidationStartsWith, Pattern: "ab"},
			{Type: model.ValidationRequired},
		}},
		{ID: 2, Text: "Size", Type: model.QuestionTypeNumber, Validation: []model.Validation{
			{Type: model.ValidationFromTo, Range: model.Range{From: 1, To: 10}},
		}},
		{ID: 3, Text: "Agree", Type: model.QuestionTypeTrueFalse},
	}}
}

func TestFill_RepromptsFailingFields(t *testing.T) {
	driver := &stubDriver{
		// first pass: code, size; second pass: code, size (with a non-number retry)
		inputs:  []string{"", "15", "abc", "x", "5"},
		confirm: []bool{true},
	}
	r := newRenderer(t, driver)

	answers, err := r.Fill(context.Background(), tester.Prepare(testerForm()))
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if answers[1].Text != "abc" || answers[2].Number != 5 || !answers[3].Checked {
		t.Fatalf("unexpected answers %+v", answers)
	}
	for _, want := range []string{
		`Code: Must start with "ab"`,
		"Size: Must be between 1 and 10",
		"Please enter a number",
		tester.SubmittedMessage,
	} {
		if !driver.sawInfo(want) {
			t.Fatalf("expected message %q, got %v", want, driver.infoMessages)
		}
	}
	if driver.confirmPos != 1 {
		t.Fatalf("passing checkbox must not be asked again")
	}
}

func TestTest_NoData(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}}
	r := newRenderer(t, driver)

	_, exit, err := r.Test(context.Background(), tester.Prepare(model.Form{}))
	if !errors.Is(err, tester.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if exit != app.ExitSwitch {
		t.Fatalf("expected switch exit, got %v", exit)
	}
	if !driver.sawInfo(tester.NoDataMessage) {
		t.Fatalf("expected no-data message, got %v", driver.infoMessages)
	}
}

func TestTest_ChoosesExit(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"abc", "2"},
		confirm:   []bool{false},
		selectIdx: []int{2},
	}
	r := newRenderer(t, driver)

	_, exit, err := r.Test(context.Background(), tester.Prepare(testerForm()))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if exit != app.ExitQuit {
		t.Fatalf("expected quit, got %v", exit)
	}
}

func TestBuild_AddEditSaveAndLeave(t *testing.T) {
	store, kv := newStore(t)
	driver := &stubDriver{
		selectIdx: []int{
			0, // main menu: Add question
			0, // edit: Text
			2, // edit: Validation
			3, // edit: StartsWith value (after Text, Type, Validation)
			4, // edit: Done
			3, // main menu: Save form (question, add, remove, save)
			4, // main menu: Go to Form Tester
		},
		inputs:   []string{"Code", "PRJ-"},
		multiIdx: [][]int{{1}},
	}
	r := newRenderer(t, driver)

	exit, err := r.Build(context.Background(), store)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if exit != app.ExitSwitch {
		t.Fatalf("expected switch exit, got %v", exit)
	}
	if !driver.sawInfo(builder.SavedMessage) {
		t.Fatalf("expected saved message, got %v", driver.infoMessages)
	}

	raw, ok, _ := kv.Get(context.Background(), storage.DefaultKey)
	if !ok {
		t.Fatalf("expected form to be stored")
	}
	form, err := model.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode stored form: %v", err)
	}
	q := form.Questions[0]
	if q.Text != "Code" || q.Type != model.QuestionTypeText {
		t.Fatalf("unexpected stored question %+v", q)
	}
	rule, ok := q.Rule(model.ValidationStartsWith)
	if !ok || rule.Pattern != "PRJ-" {
		t.Fatalf("expected StartsWith rule, got %+v", q.Validation)
	}
}

func TestBuild_SaveHiddenForEmptyForm(t *testing.T) {
	store, _ := newStore(t)
	driver := &stubDriver{selectIdx: []int{2}}
	r := newRenderer(t, driver)

	exit, err := r.Build(context.Background(), store)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if exit != app.ExitQuit {
		t.Fatalf("expected quit, got %v", exit)
	}
	want := []string{menuAdd, menuTester, menuQuit}
	if got := driver.selectMenus[0]; strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected menu %v", got)
	}
}

func TestBuild_RejectedRangeKeepsRule(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	id, _ := store.AddQuestion(ctx)
	_ = store.SetType(ctx, id, model.QuestionTypeNumber)
	_ = store.ToggleValidation(ctx, id, model.ValidationFromTo, true)

	driver := &stubDriver{
		selectIdx: []int{
			0, // main menu: question 1
			3, // edit: FromTo range
			4, // edit: Done
			4, // main menu: Go to Form Tester (question, add, remove, save, tester)
		},
		inputs: []string{"5", "2"},
	}
	r := newRenderer(t, driver)

	if _, err := r.Build(ctx, store); err != nil {
		t.Fatalf("build: %v", err)
	}
	if !driver.sawInfo(string(builder.ErrRangeOrder)) {
		t.Fatalf("expected ordering warning, got %v", driver.infoMessages)
	}
	q, _ := store.Question(id)
	rule, _ := q.Rule(model.ValidationFromTo)
	if rule.Range != (model.Range{}) {
		t.Fatalf("rejected range must not be stored, got %+v", rule.Range)
	}
}

func TestBuild_RemoveQuestion(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	_, _ = store.AddQuestion(ctx)

	driver := &stubDriver{
		selectIdx: []int{
			2, // main menu: Remove question
			0, // remove: question 1
			2, // main menu: Quit (add, tester, quit)
		},
	}
	r := newRenderer(t, driver)

	if _, err := r.Build(ctx, store); err != nil {
		t.Fatalf("build: %v", err)
	}
	if !store.Form().Empty() {
		t.Fatalf("expected question to be removed")
	}
}

func TestConfirm_PassesThrough(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true}}
	r := newRenderer(t, driver)

	ok, err := r.Confirm(context.Background(), app.UnsavedChangesPrompt)
	if err != nil || !ok {
		t.Fatalf("confirm: ok=%v err=%v", ok, err)
	}
}

func TestSurveyDriver_InfoAndCancelledContext(t *testing.T) {
	var out bytes.Buffer
	driver := NewSurveyDriver(&out)

	if err := driver.Info(context.Background(), "Form saved successfully!"); err != nil {
		t.Fatalf("info: %v", err)
	}
	if out.String() != "Form saved successfully!\n" {
		t.Fatalf("unexpected info output %q", out.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.Input(ctx, InputConfig{Message: "Question text"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("input on cancelled context: %v", err)
	}
	if _, err := driver.Select(ctx, SelectConfig{Message: "Form Builder", Options: []string{"Quit"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("select on cancelled context: %v", err)
	}
}

func TestValidIndices(t *testing.T) {
	got := validIndices([]int{-1, 0, 2, 3, 1}, 3)
	if diff := cmp.Diff([]int{0, 2, 1}, got); diff != "" {
		t.Fatalf("indices mismatch (-want +got):\n%s", diff)
	}
}
