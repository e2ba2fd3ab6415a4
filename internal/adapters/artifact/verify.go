package artifact

import (
	"fmt"

	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
)

// Verify checks that a and s are a matched pair: same schema identity, same
// column order and, where the artifact records its training encodings, the
// same label codes. Failures wrap encoding.ErrSchemaMismatch.
func Verify(a *Artifact, s *schema.Schema) error {
	if ref := a.SchemaRef(); ref.Name != "" {
		if ref.Name != s.Name || ref.Version != s.Version {
			return mismatch("artifact %s was trained for %s@v%d, schema is %s", a.Name(), ref.Name, ref.Version, s.ID())
		}
	}
	if s.Model != "" && a.Name() != s.Model {
		return mismatch("schema %s expects model %s, artifact is %s", s.ID(), s.Model, a.Name())
	}

	names := s.Names()
	if len(names) != len(a.features) {
		return mismatch("schema %s has %d slots, artifact %s has %d features", s.ID(), len(names), a.Name(), len(a.features))
	}
	for i, n := range names {
		if a.features[i] != n {
			return mismatch("column %d: schema has %q, artifact has %q", i, n, a.features[i])
		}
	}

	maps := s.CategoryMap()
	for slot, labels := range a.categories {
		if !maps.Has(slot) {
			return mismatch("artifact encodes %q but the schema has no categorical slot by that name", slot)
		}
		if len(labels) != len(maps[slot]) {
			return mismatch("slot %q: artifact has %d labels, schema has %d", slot, len(labels), len(maps[slot]))
		}
		for code, label := range labels {
			got, ok := maps.Lookup(slot, label)
			if !ok {
				return mismatch("slot %q: artifact label %q is not offered", slot, label)
			}
			if got != code {
				return mismatch("slot %q: label %q is %d in the schema, %d in the artifact", slot, label, got, code)
			}
		}
	}
	return nil
}

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", encoding.ErrSchemaMismatch, fmt.Sprintf(format, args...))
}
