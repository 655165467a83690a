package builder

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/storage"
)

func TestStore_LoadsEmptyWhenNothingStored(t *testing.T) {
	store, _ := newStore(t, nil)
	if !store.Form().Empty() {
		t.Fatalf("expected empty form")
	}
	if store.HasUnsavedChanges() {
		t.Fatalf("fresh store should not report unsaved changes")
	}
}

func TestStore_LoadsCorruptAsEmpty(t *testing.T) {
	store, _ := newStore(t, map[string]string{storage.DefaultKey: "{not json"})
	if !store.Form().Empty() {
		t.Fatalf("expected corrupt document to load as empty form")
	}
}

func TestStore_TracksUnsavedChanges(t *testing.T) {
	var signals []bool
	store, _ := newStore(t, nil, WithUnsavedChangesHandler(func(v bool) {
		signals = append(signals, v)
	}))
	ctx := context.Background()

	id, err := store.AddQuestion(ctx)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !store.HasUnsavedChanges() {
		t.Fatalf("expected unsaved changes after add")
	}

	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.HasUnsavedChanges() {
		t.Fatalf("expected clean state after save")
	}

	if err := store.SetText(ctx, id, "Name"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if !store.HasUnsavedChanges() {
		t.Fatalf("expected unsaved changes after edit")
	}

	if err := store.SetText(ctx, id, ""); err != nil {
		t.Fatalf("revert text: %v", err)
	}
	if store.HasUnsavedChanges() {
		t.Fatalf("reverting to the stored content should clear the signal")
	}

	want := []bool{false, true, false, true, false}
	if len(signals) != len(want) {
		t.Fatalf("signals: want %v, got %v", want, signals)
	}
	for i := range want {
		if signals[i] != want[i] {
			t.Fatalf("signals: want %v, got %v", want, signals)
		}
	}
}

func TestStore_SavePersistsWholeDocument(t *testing.T) {
	store, kv := newStore(t, nil)
	ctx := context.Background()

	id, _ := store.AddQuestion(ctx)
	_ = store.SetType(ctx, id, model.QuestionTypeNumber)
	_ = store.ToggleValidation(ctx, id, model.ValidationFromTo, true)
	if err := store.SetRange(ctx, id, model.Range{From: 2, To: 5}); err != nil {
		t.Fatalf("set range: %v", err)
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	slot, _ := storage.NewSlot(kv)
	stored, err := slot.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !model.Equal(stored, store.Form()) {
		t.Fatalf("stored form differs:\n%s", model.Diff(stored, store.Form()))
	}
}

func TestStore_SetRangePolicy(t *testing.T) {
	cases := []struct {
		name    string
		in      model.Range
		wantErr error
	}{
		{"from greater than to", model.Range{From: 5, To: 2}, ErrRangeOrder},
		{"equal bounds", model.Range{From: 2, To: 2}, ErrRangeEqual},
		{"negative from", model.Range{From: -1, To: 2}, ErrRangeNegative},
		{"negative both ordered wins", model.Range{From: -1, To: -3}, ErrRangeOrder},
		{"infinite to", model.Range{From: 0, To: math.Inf(1)}, ErrRangeNotNumber},
		{"negative infinite from", model.Range{From: math.Inf(-1), To: 5}, ErrRangeNotNumber},
		{"NaN from", model.Range{From: math.NaN(), To: 5}, ErrRangeNotNumber},
		{"valid", model.Range{From: 2, To: 5}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newStore(t, nil)
			ctx := context.Background()
			id, _ := store.AddQuestion(ctx)
			_ = store.SetType(ctx, id, model.QuestionTypeNumber)
			_ = store.ToggleValidation(ctx, id, model.ValidationFromTo, true)
			before := store.Form()

			err := store.SetRange(ctx, id, tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}

			q, _ := store.Question(id)
			rule, _ := q.Rule(model.ValidationFromTo)
			if tc.wantErr != nil {
				if !model.Equal(before, store.Form()) {
					t.Fatalf("rejected range changed state")
				}
				return
			}
			if rule.Range != tc.in {
				t.Fatalf("want range %+v, got %+v", tc.in, rule.Range)
			}
		})
	}
}

func TestStore_AddQuestionIDsAreUniqueAndIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	ids := NewIDSource(func() time.Time { return fixed })
	store, _ := newStore(t, nil, WithIDSource(ids))
	ctx := context.Background()

	first, _ := store.AddQuestion(ctx)
	second, _ := store.AddQuestion(ctx)
	third, _ := store.AddQuestion(ctx)

	if !(first < second && second < third) {
		t.Fatalf("ids not increasing: %d %d %d", first, second, third)
	}
	if first != fixed.UnixMilli() {
		t.Fatalf("expected first id to use the clock, got %d", first)
	}
}

func TestStore_IDsSortAfterLoadedQuestions(t *testing.T) {
	seed := map[string]string{storage.DefaultKey: `{"questions":[{"id":5000,"text":"","type":"Text","validation":[]}]}`}
	ids := NewIDSource(func() time.Time { return time.UnixMilli(10) })
	store, _ := newStore(t, seed, WithIDSource(ids))

	id, _ := store.AddQuestion(context.Background())
	if id <= 5000 {
		t.Fatalf("expected id after loaded ids, got %d", id)
	}
}

func TestStore_DispatchAssignsMissingID(t *testing.T) {
	store, _ := newStore(t, nil)
	form, err := store.Dispatch(context.Background(), AddQuestion{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if form.Questions[0].ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
}

func TestStore_CanSave(t *testing.T) {
	ctx := context.Background()

	empty, _ := newStore(t, nil)
	if ok, _ := empty.CanSave(ctx); ok {
		t.Fatalf("empty store with nothing stored should not offer save")
	}

	seeded, _ := newStore(t, map[string]string{storage.DefaultKey: `{"questions":[{"id":1,"text":"","type":"Text","validation":[]}]}`})
	if err := seeded.RemoveQuestion(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ok, _ := seeded.CanSave(ctx); !ok {
		t.Fatalf("removing the last stored question must still allow saving")
	}
}

func TestStore_ReloadDiscardsLiveEdits(t *testing.T) {
	store, _ := newStore(t, nil)
	ctx := context.Background()

	id, _ := store.AddQuestion(ctx)
	_ = store.SetText(ctx, id, "Kept")
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = store.SetText(ctx, id, "Discarded")
	if _, err := store.AddQuestion(ctx); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := store.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	form := store.Form()
	if len(form.Questions) != 1 || form.Questions[0].Text != "Kept" {
		t.Fatalf("expected stored form after reload, got %+v", form)
	}
	if store.HasUnsavedChanges() {
		t.Fatalf("reload should leave no unsaved changes")
	}
}

func TestNew_RequiresSlot(t *testing.T) {
	if _, err := New(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil slot")
	}
}

func newStore(t *testing.T, seed map[string]string, options ...Option) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory(seed)
	slot, err := storage.NewSlot(kv)
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	store, err := New(context.Background(), slot, options...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, kv
}

func TestStore_SetRangeNonFiniteKeepsDocumentSavable(t *testing.T) {
	store, _ := newStore(t, nil)
	ctx := context.Background()
	id, _ := store.AddQuestion(ctx)
	_ = store.SetType(ctx, id, model.QuestionTypeNumber)
	_ = store.ToggleValidation(ctx, id, model.ValidationFromTo, true)

	for _, r := range []model.Range{{From: 0, To: math.Inf(1)}, {From: math.NaN(), To: 5}} {
		if err := store.SetRange(ctx, id, r); !errors.Is(err, ErrRangeNotNumber) {
			t.Fatalf("range %+v: want ErrRangeNotNumber, got %v", r, err)
		}
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save after rejected ranges: %v", err)
	}
}

func TestStore_InvalidUTF8IsCleanAfterSave(t *testing.T) {
	store, _ := newStore(t, nil)
	ctx := context.Background()
	id, _ := store.AddQuestion(ctx)
	_ = store.ToggleValidation(ctx, id, model.ValidationContains, true)

	if err := store.SetText(ctx, id, "bad \xff text"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if err := store.SetPattern(ctx, id, model.ValidationContains, "x\xfey"); err != nil {
		t.Fatalf("set pattern: %v", err)
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.HasUnsavedChanges() {
		t.Fatalf("saved document should match its stored copy")
	}

	q, _ := store.Question(id)
	if q.Text != "bad \uFFFD text" {
		t.Fatalf("unexpected text %q", q.Text)
	}
	rule, _ := q.Rule(model.ValidationContains)
	if rule.Pattern != "x\uFFFDy" {
		t.Fatalf("unexpected pattern %q", rule.Pattern)
	}
}
