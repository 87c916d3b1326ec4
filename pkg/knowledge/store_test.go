package knowledge

import (
	"sync"
	"testing"
)

func TestStore_AddPreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	names := []string{"contrato.md", "vacaciones.md", "nomina.md"}
	for _, n := range names {
		store.Add(NewTextItem(n, "contenido de "+n))
	}

	items := store.All()
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	for i, n := range names {
		if items[i].Name != n {
			t.Errorf("Item %d: expected %q, got %q", i, n, items[i].Name)
		}
	}
}

func TestStore_LenAndEmpty(t *testing.T) {
	store := NewStore()
	if store.Len() != 0 {
		t.Errorf("New store should be empty, got %d", store.Len())
	}
	store.Add(NewTextItem("a", "x"))
	if store.Len() != 1 {
		t.Errorf("Expected 1 item, got %d", store.Len())
	}
}

func TestStore_ObserversReceiveSnapshots(t *testing.T) {
	store := NewStore()
	var snapshots [][]Item
	store.Subscribe(func(items []Item) {
		snapshots = append(snapshots, items)
	})

	store.Add(NewTextItem("a", "x"))
	store.Add(NewImageItem("b.png", []byte{1}, "image/png"))

	if len(snapshots) != 2 {
		t.Fatalf("Expected a snapshot per add, got %d", len(snapshots))
	}
	if len(snapshots[0]) != 1 || len(snapshots[1]) != 2 {
		t.Errorf("Snapshots should grow: %d then %d", len(snapshots[0]), len(snapshots[1]))
	}
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	store := NewStore()
	store.Add(NewTextItem("a", "x"))

	items := store.All()
	items[0].Name = "mutado"

	if store.All()[0].Name != "a" {
		t.Error("Mutating a returned snapshot must not affect the store")
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add(NewTextItem("doc", "contenido"))
		}()
	}
	wg.Wait()

	if store.Len() != 20 {
		t.Errorf("Expected 20 items after concurrent adds, got %d", store.Len())
	}
}

func TestNewTextItem_Fields(t *testing.T) {
	item := NewTextItem("politica.md", "texto")
	if item.ID == "" {
		t.Error("Item must get a generated id")
	}
	if item.Kind != KindText {
		t.Errorf("Expected KindText, got %v", item.Kind)
	}
	if item.MediaType != "" {
		t.Errorf("Text items must not carry a media type, got %q", item.MediaType)
	}
}

func TestNewImageItem_Fields(t *testing.T) {
	item := NewImageItem("foto.png", []byte{1, 2, 3}, "image/png")
	if item.Kind != KindImage {
		t.Errorf("Expected KindImage, got %v", item.Kind)
	}
	if item.MediaType != "image/png" {
		t.Errorf("Expected media type to be kept, got %q", item.MediaType)
	}
	if len(item.Data) != 3 {
		t.Errorf("Expected raw bytes to be kept, got %d", len(item.Data))
	}
}
