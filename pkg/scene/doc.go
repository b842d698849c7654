// Package scene provides a minimal in-memory stage: a tree of typed prims
// with named, typed attributes, plus the materializer that realizes a
// computed image-sequence layout as textured quad prims.
//
// The stage abstracts the host 3D platform's object model behind a small
// capability surface ([Stage.Define], [Node.Set], [Stage.DeleteChildren]),
// so the same layout pipeline can target any engine that can adapt those
// operations. Stages serialize to a canonical JSON form for round-trip
// editing sessions and to USDA text via the render sinks.
//
// Layout parameters are persisted on the sequence root prim as individual
// typed attributes under the "imageseq:" namespace with an explicit schema
// version, so any language or runtime can read them back without shared
// object-model assumptions.
package scene
