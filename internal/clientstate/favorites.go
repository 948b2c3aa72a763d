// Package clientstate holds the client-side session state for favorited
// reports: a partition map keyed by the active identity, persisted as a
// single blob. Earlier client versions persisted a bare list with no
// partitioning; that shape is migrated into the guest partition the first
// time it is read.
package clientstate

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/spec-kit/pollution-service/internal/auth"
)

// GuestPartition is the partition key for the anonymous session.
const GuestPartition = "guest"

const stateVersion = 1

// PartitionKey derives the partition key for an identity. Nil or
// incomplete identities map to the guest partition. Pure function, no I/O.
func PartitionKey(identity *auth.Identity) string {
	if identity == nil || identity.SubjectID <= 0 {
		return GuestPartition
	}
	return strconv.FormatInt(identity.SubjectID, 10)
}

// Ref references a favorited report. Refs within a partition are unique by
// ReportID and keep insertion order.
type Ref struct {
	ReportID int64  `json:"report_id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}

// stateDocument is the persisted shape, current version.
type stateDocument struct {
	Version    int              `json:"version"`
	Partitions map[string][]Ref `json:"partitions"`
}

func newStateDocument() *stateDocument {
	return &stateDocument{Version: stateVersion, Partitions: map[string][]Ref{}}
}

// migrateLegacy converts the pre-partitioning flat list into the guest
// partition. Idempotent by construction: it only runs when shape detection
// sees the legacy list, and its output is the current shape.
func migrateLegacy(refs []Ref) *stateDocument {
	doc := newStateDocument()
	if len(refs) > 0 {
		doc.Partitions[GuestPartition] = refs
	}
	return doc
}

// decodeState detects the persisted shape and returns the document plus
// whether a legacy migration happened.
func decodeState(raw []byte) (*stateDocument, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return newStateDocument(), false, nil
	}
	if trimmed[0] == '[' {
		var legacy []Ref
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, false, err
		}
		return migrateLegacy(legacy), true, nil
	}
	var doc stateDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, false, err
	}
	if doc.Partitions == nil {
		doc.Partitions = map[string][]Ref{}
	}
	return &doc, false, nil
}

// Store manages the partitioned favorites state over a Storage backend.
// Callers pass the partition key explicitly on every operation; the store
// never reads an ambient "current identity".
type Store struct {
	storage Storage
}

// NewStore builds a store over the given backend.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// load reads and decodes the persisted state, rewriting it once when the
// legacy shape was found so migration happens exactly one time.
func (s *Store) load(ctx context.Context) (*stateDocument, error) {
	raw, ok, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return newStateDocument(), nil
	}
	doc, migrated, err := decodeState(raw)
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := s.save(ctx, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc *stateDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, raw)
}

// Read returns the favorites for the given partition in insertion order.
// A missing partition reads as empty.
func (s *Store) Read(ctx context.Context, key string) ([]Ref, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	refs := doc.Partitions[key]
	out := make([]Ref, len(refs))
	copy(out, refs)
	return out, nil
}

// Add appends a favorite to the partition. Adding a report already present
// by id is a no-op.
func (s *Store) Add(ctx context.Context, key string, ref Ref) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range doc.Partitions[key] {
		if existing.ReportID == ref.ReportID {
			return nil
		}
	}
	doc.Partitions[key] = append(doc.Partitions[key], ref)
	return s.save(ctx, doc)
}

// Remove drops a favorite from the partition. Removing an absent id is a
// no-op.
func (s *Store) Remove(ctx context.Context, key string, reportID int64) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	refs := doc.Partitions[key]
	kept := refs[:0]
	for _, ref := range refs {
		if ref.ReportID != reportID {
			kept = append(kept, ref)
		}
	}
	if len(kept) == len(refs) {
		return nil
	}
	if len(kept) == 0 {
		delete(doc.Partitions, key)
	} else {
		doc.Partitions[key] = kept
	}
	return s.save(ctx, doc)
}

// Clear wipes a single partition, leaving every other partition untouched.
func (s *Store) Clear(ctx context.Context, key string) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, exists := doc.Partitions[key]; !exists {
		return nil
	}
	delete(doc.Partitions, key)
	return s.save(ctx, doc)
}

// ClearAll wipes every partition. Reserved for explicit administrative or
// debug use; nothing invokes it implicitly.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.save(ctx, newStateDocument())
}
