// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import "github.com/gviegas/pngine/internal/idpool"

// resourceTables holds one dense handle pool per resource class.
type resourceTables struct {
	pools [classCount]idpool.Pool[Handle]
}

func (t *resourceTables) create(class ResourceClass, h Handle) int {
	return t.pools[class].Append(h)
}

func (t *resourceTables) createPool(class ResourceClass, hs []Handle) int {
	return t.pools[class].AppendPool(hs)
}

func (t *resourceTables) get(class ResourceClass, id int) (Handle, bool) {
	return t.pools[class].At(id)
}

func (t *resourceTables) getPooled(class ResourceClass, base, offset int) (Handle, bool) {
	return t.pools[class].AtOffset(base, offset)
}

// teardown destroys every handle in every class, in reverse creation
// order within each class, classes in reverse declaration order (so
// that classes which typically reference earlier ones, e.g. bind
// groups referencing buffers, are destroyed first).
func (t *resourceTables) teardown(backend Backend) {
	for c := int(classCount) - 1; c >= 0; c-- {
		class := ResourceClass(c)
		t.pools[class].ReleaseReverse(func(h Handle) {
			backend.Destroy(class, h)
		})
	}
}
