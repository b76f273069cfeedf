package store

import (
	"testing"
)

func TestMemberCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	members := NewMemberStore(db)

	m, err := members.Create("Asha", "asha@example.com", "#ff8800", "🦊")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == 0 {
		t.Error("expected non-zero id")
	}
	if m.Name != "Asha" {
		t.Errorf("got name %q, want %q", m.Name, "Asha")
	}
	if m.HasPIN {
		t.Error("new member should not have a PIN")
	}
	if m.SortOrder != 0 {
		t.Errorf("got sort_order %d, want 0", m.SortOrder)
	}

	got, err := members.GetByID(m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Email != "asha@example.com" {
		t.Errorf("got %+v, want email preserved", got)
	}
}

func TestMemberGetMissing(t *testing.T) {
	db := setupTestDB(t)
	members := NewMemberStore(db)

	got, err := members.GetByID(999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for missing member", got)
	}
}

func TestMemberSortOrderAssignment(t *testing.T) {
	db := setupTestDB(t)
	members := NewMemberStore(db)

	for i, name := range []string{"Asha", "Ben", "Cleo"} {
		m, err := members.Create(name, "", "#000000", "")
		if err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
		if m.SortOrder != i {
			t.Errorf("%s: got sort_order %d, want %d", name, m.SortOrder, i)
		}
	}

	if err := members.UpdateSortOrder([]int64{3, 1, 2}); err != nil {
		t.Fatalf("UpdateSortOrder: %v", err)
	}
	list, err := members.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d members, want 3", len(list))
	}
	if list[0].Name != "Cleo" {
		t.Errorf("got first member %q, want %q", list[0].Name, "Cleo")
	}
}

func TestMemberPINLifecycle(t *testing.T) {
	db := setupTestDB(t)
	members := NewMemberStore(db)

	m, err := members.Create("Asha", "", "#ff8800", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := members.SetPIN(m.ID, "$2a$10$fakehash"); err != nil {
		t.Fatalf("SetPIN: %v", err)
	}
	got, err := members.GetByID(m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.HasPIN {
		t.Error("expected HasPIN after SetPIN")
	}

	hash, err := members.GetPINHash(m.ID)
	if err != nil {
		t.Fatalf("GetPINHash: %v", err)
	}
	if hash != "$2a$10$fakehash" {
		t.Errorf("got hash %q", hash)
	}

	if err := members.ClearPIN(m.ID); err != nil {
		t.Fatalf("ClearPIN: %v", err)
	}
	hash, err = members.GetPINHash(m.ID)
	if err != nil {
		t.Fatalf("GetPINHash after clear: %v", err)
	}
	if hash != "" {
		t.Errorf("got hash %q after clear, want empty", hash)
	}
}

func TestMemberNameExists(t *testing.T) {
	db := setupTestDB(t)
	members := NewMemberStore(db)

	m, err := members.Create("Asha", "", "#ff8800", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := members.NameExists("Asha", 0)
	if err != nil {
		t.Fatalf("NameExists: %v", err)
	}
	if !exists {
		t.Error("expected name to exist")
	}

	// Excluding the member's own id lets updates keep the same name.
	exists, err = members.NameExists("Asha", m.ID)
	if err != nil {
		t.Fatalf("NameExists excluding self: %v", err)
	}
	if exists {
		t.Error("expected no conflict when excluding self")
	}
}
