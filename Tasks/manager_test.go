package Tasks

import (
	"errors"
	"testing"
)

func TestManagerSuccess(t *testing.T) {
	manager := NewManager(NewMemoryStore())

	id := manager.Enqueue("test_task", func() (map[string]interface{}, error) {
		return map[string]interface{}{"answer": 42}, nil
	})
	if id == "" {
		t.Fatal("expected a task id")
	}

	manager.Wait()

	status, ok := manager.Status(id)
	if !ok {
		t.Fatal("task handle not found")
	}
	if status.State != StateSuccess {
		t.Fatalf("expected %s, got %s", StateSuccess, status.State)
	}
	if status.Result["answer"] != 42 {
		t.Fatalf("result payload lost: %+v", status.Result)
	}
}

func TestManagerFailure(t *testing.T) {
	manager := NewManager(NewMemoryStore())

	id := manager.Enqueue("failing_task", func() (map[string]interface{}, error) {
		return nil, errors.New("smtp unreachable")
	})

	manager.Wait()

	status, ok := manager.Status(id)
	if !ok {
		t.Fatal("task handle not found")
	}
	if status.State != StateFailure {
		t.Fatalf("expected %s, got %s", StateFailure, status.State)
	}
	if status.Status != "smtp unreachable" {
		t.Fatalf("failure message lost: %q", status.Status)
	}
}

func TestManagerCapturesPanic(t *testing.T) {
	manager := NewManager(NewMemoryStore())

	id := manager.Enqueue("panicking_task", func() (map[string]interface{}, error) {
		panic("boom")
	})

	manager.Wait()

	status, _ := manager.Status(id)
	if status.State != StateFailure {
		t.Fatalf("expected %s, got %s", StateFailure, status.State)
	}
}

func TestManagerRetries(t *testing.T) {
	manager := NewManager(NewMemoryStore())
	manager.SetRetries(2)

	attempts := 0
	id := manager.Enqueue("flaky_task", func() (map[string]interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient")
		}
		return map[string]interface{}{"attempts": attempts}, nil
	})

	manager.Wait()

	status, _ := manager.Status(id)
	if status.State != StateSuccess {
		t.Fatalf("expected %s after retries, got %s", StateSuccess, status.State)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestManagerUnknownTask(t *testing.T) {
	manager := NewManager(NewMemoryStore())
	if _, ok := manager.Status("no-such-task"); ok {
		t.Fatal("expected unknown task to report not found")
	}
}
