package game

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

func testState(t *testing.T) json.RawMessage {
	t.Helper()
	return json.RawMessage(`{"hp":20,"inventory":["torch"]}`)
}

func saveInput(t *testing.T, runID string, floor, gold int) SaveGameInput {
	t.Helper()
	return SaveGameInput{
		RunID:       runID,
		CharacterID: "warrior",
		GameState:   testState(t),
		FloorNumber: floor,
		CurrentGold: gold,
	}
}

func TestSaveGameStartsNewRun(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	run, err := svc.SaveGame("u1", saveInput(t, "", 1, 0))
	if err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if run.RunID == "" {
		t.Fatal("expected a generated run id")
	}
	if !run.IsActive {
		t.Fatal("expected new run to be active")
	}
	if run.MaxFloorReached != 1 {
		t.Fatalf("expected max floor 1, got %d", run.MaxFloorReached)
	}
}

func TestSaveGameUpdatesExistingRun(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	first, err := svc.SaveGame("u1", saveInput(t, "", 5, 10))
	if err != nil {
		t.Fatalf("initial save failed: %v", err)
	}

	updated, err := svc.SaveGame("u1", saveInput(t, first.RunID, 3, 250))
	if err != nil {
		t.Fatalf("update save failed: %v", err)
	}
	if updated.RunID != first.RunID {
		t.Fatalf("expected run id %s, got %s", first.RunID, updated.RunID)
	}
	if updated.FloorNumber != 3 || updated.CurrentGold != 250 {
		t.Fatalf("unexpected fields: %+v", updated)
	}
	if updated.MaxFloorReached != 5 {
		t.Fatalf("expected max floor high-water 5, got %d", updated.MaxFloorReached)
	}

	saves, err := svc.GetUserSaves("u1")
	if err != nil {
		t.Fatalf("list saves failed: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("expected one save after repeated updates, got %d", len(saves))
	}
}

func TestSaveGameCopiesState(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	state := json.RawMessage(`{"hp":20}`)
	run, err := svc.SaveGame("u1", SaveGameInput{
		CharacterID: "warrior",
		GameState:   state,
		FloorNumber: 1,
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Scribbling over the caller's buffer must not reach the store.
	state[1] = 'X'

	loaded, err := svc.LoadSaveByRunID("u1", run.RunID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(loaded.GameState) != `{"hp":20}` {
		t.Fatalf("expected stored state to be isolated, got %s", loaded.GameState)
	}
}

func TestSaveGameUnknownRunID(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	if _, err := svc.SaveGame("u1", saveInput(t, "missing", 1, 0)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveGameForeignRunID(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	run, err := svc.SaveGame("owner", saveInput(t, "", 1, 0))
	if err != nil {
		t.Fatalf("initial save failed: %v", err)
	}
	if _, err := svc.SaveGame("intruder", saveInput(t, run.RunID, 2, 0)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's run, got %v", err)
	}
}

func TestStartNewRunDeactivatesPrior(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	first, err := svc.SaveGame("u1", saveInput(t, "", 4, 0))
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	second, err := svc.SaveGame("u1", saveInput(t, "", 1, 0))
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	active, err := svc.LoadActiveGame("u1")
	if err != nil {
		t.Fatalf("load active failed: %v", err)
	}
	if active == nil || active.RunID != second.RunID {
		t.Fatalf("expected %s active, got %+v", second.RunID, active)
	}

	old, err := svc.LoadSaveByRunID("u1", first.RunID)
	if err != nil {
		t.Fatalf("expected old run to stay loadable, got %v", err)
	}
	if old.IsActive {
		t.Fatal("expected prior run to be deactivated")
	}
}

func TestConcurrentNewRunsLeaveOneActive(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SaveGame("u1", saveInput(t, "", 1, 0)); err != nil {
				t.Errorf("concurrent save failed: %v", err)
			}
		}()
	}
	wg.Wait()

	saves, err := svc.GetUserSaves("u1")
	if err != nil {
		t.Fatalf("list saves failed: %v", err)
	}
	if len(saves) != 16 {
		t.Fatalf("expected 16 runs, got %d", len(saves))
	}
	active := 0
	for _, run := range saves {
		if run.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active run, got %d", active)
	}
}

func TestLoadActiveGameNone(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	run, err := svc.LoadActiveGame("u1")
	if err != nil {
		t.Fatalf("expected no error for empty store, got %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %+v", run)
	}
}

func TestFinishRunIdempotent(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	run, err := svc.SaveGame("u1", saveInput(t, "", 7, 30))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	finished, err := svc.FinishRun("u1", run.RunID)
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if finished.IsActive {
		t.Fatal("expected run to be finished")
	}

	again, err := svc.FinishRun("u1", run.RunID)
	if err != nil {
		t.Fatalf("expected second finish to be a no-op, got %v", err)
	}
	if again.IsActive || again.RunID != run.RunID {
		t.Fatalf("unexpected record on repeated finish: %+v", again)
	}
	if !again.UpdatedAt.Equal(finished.UpdatedAt) {
		t.Fatalf("expected repeated finish to leave updated_at alone, got %v then %v", finished.UpdatedAt, again.UpdatedAt)
	}

	active, err := svc.LoadActiveGame("u1")
	if err != nil {
		t.Fatalf("load active failed: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active run after finish, got %+v", active)
	}
}

func TestFinishRunUnknown(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	if _, err := svc.FinishRun("u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSave(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	run, err := svc.SaveGame("u1", saveInput(t, "", 2, 0))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := svc.DeleteSave("u1", run.RunID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	saves, err := svc.GetUserSaves("u1")
	if err != nil {
		t.Fatalf("list saves failed: %v", err)
	}
	if len(saves) != 0 {
		t.Fatalf("expected no saves after delete, got %d", len(saves))
	}
	if _, err := svc.LoadSaveByRunID("u1", run.RunID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteSave("u1", run.RunID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeated delete, got %v", err)
	}
}

func TestDeleteSaveForeignUser(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	run, err := svc.SaveGame("owner", saveInput(t, "", 2, 0))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := svc.DeleteSave("intruder", run.RunID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's run, got %v", err)
	}
}

func TestSaveGameValidation(t *testing.T) {
	svc := NewRunService(NewMemoryRunStore())

	cases := map[string]SaveGameInput{
		"missing character": {GameState: testState(t), FloorNumber: 1},
		"missing state":     {CharacterID: "warrior", FloorNumber: 1},
		"negative floor":    {CharacterID: "warrior", GameState: testState(t), FloorNumber: -1},
		"negative gold":     {CharacterID: "warrior", GameState: testState(t), CurrentGold: -5},
	}
	for name, in := range cases {
		if _, err := svc.SaveGame("u1", in); !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}

	saves, err := svc.GetUserSaves("u1")
	if err != nil {
		t.Fatalf("list saves failed: %v", err)
	}
	if len(saves) != 0 {
		t.Fatalf("expected no partial writes, got %d saves", len(saves))
	}
}
