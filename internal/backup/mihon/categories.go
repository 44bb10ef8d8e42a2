package mihon

import (
	"fmt"

	"github.com/dexreader/dexreader/internal/backup"
)

// Reconciler resolves foreign category references against native collections.
// Foreign categories are keyed by their order value inside one backup file;
// categories without an explicit order get negative fallback keys so they
// stay addressable. Nothing is written to the store until Commit, which
// keeps a cancelled import from leaving half-created collections behind.
type Reconciler struct {
	store    backup.CollectionStore
	names    map[int64]string
	marked   map[int64]bool
	nextFall int64
}

// NewReconciler builds a reconciler over the backup's category declarations.
func NewReconciler(store backup.CollectionStore, categories []BackupCategory) *Reconciler {
	r := &Reconciler{
		store:    store,
		names:    make(map[int64]string, len(categories)),
		marked:   make(map[int64]bool),
		nextFall: -1,
	}
	for _, c := range categories {
		key := c.Order
		if !c.OrderSet {
			key = r.nextFall
			r.nextFall--
		}
		if _, taken := r.names[key]; taken {
			continue
		}
		r.names[key] = c.Name
	}
	return r
}

// Mark records that a manga references the category with the given key.
// Unknown keys are ignored; foreign backups routinely carry dangling
// references after a category is deleted client-side.
func (r *Reconciler) Mark(key int64) {
	if _, ok := r.names[key]; ok {
		r.marked[key] = true
	}
}

// Commit materializes every marked category as a native collection, reusing
// collections whose name already matches exactly. It returns the key to
// collection ID mapping plus created and reused counts.
func (r *Reconciler) Commit() (map[int64]int64, int, int, error) {
	ids := make(map[int64]int64, len(r.marked))
	byName := make(map[string]int64)
	created, reused := 0, 0
	for key := range r.marked {
		name := r.names[key]
		if id, ok := byName[name]; ok {
			ids[key] = id
			continue
		}
		existing, err := r.store.FindByName(name)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("look up collection %q: %w", name, err)
		}
		var id int64
		if existing != nil {
			id = existing.ID
			reused++
		} else {
			id, err = r.store.CreateCollection(name, "")
			if err != nil {
				return nil, 0, 0, fmt.Errorf("create collection %q: %w", name, err)
			}
			created++
		}
		byName[name] = id
		ids[key] = id
	}
	return ids, created, reused, nil
}
