// Package pkg provides the libraries behind the mosaic grid layout engine.
//
// # Overview
//
// Mosaic packs a sequence of items, each covering a whole number of grid
// units, into a grid that is bounded across the scroll direction and grows
// without bound along it. Packing is lazy: a scrolling host asks for the
// frames in the rectangle it is about to show, and only the rows that
// rectangle touches are ever packed.
//
// The pkg directory is organized into three areas:
//
//  1. Engine - [mosaic] (packing, queries, invalidation) and [geom]
//  2. Data - [manifest] (item collections on disk) and [pipeline] (snapshots)
//  3. Infrastructure - [cache], [session], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	manifest.toml / manifest.json
//	         ↓
//	    [manifest] package (load, validate, edit)
//	         ↓
//	    [mosaic] package (lazy packing into cells and frames)
//	         ↓
//	    [pipeline] package (snapshot, cache, encode)
//	         ↓
//	    JSON / text output, or a live [session] behind the HTTP server
//
// # Quick Start
//
// Pack a manifest and ask for the frames in the first screenful:
//
//	import (
//	    "github.com/matzehuels/mosaic/pkg/geom"
//	    "github.com/matzehuels/mosaic/pkg/manifest"
//	    "github.com/matzehuels/mosaic/pkg/mosaic"
//	)
//
//	m, _ := manifest.Load("gallery.toml")
//	l := mosaic.New(m, m, mosaic.Options{
//	    Viewport: geom.Size{W: 800, H: 600},
//	    Insets:   m,
//	})
//	frames := l.FramesForRect(geom.Rect{W: 800, H: 600})
//
// Items are addressed by [mosaic.ItemID], a (group, ordinal) pair. After
// inserting, removing, or moving items, call
// [mosaic.Layout.NotifyStructuralChange]; the layout keeps the packed prefix
// when the change lies beyond it and repacks otherwise.
//
// # Main Packages
//
//   - [mosaic]: the layout engine
//   - [geom]: points, sizes, insets, and rectangles in pixel space
//   - [manifest]: TOML/JSON item collections, editing, random generation
//   - [pipeline]: validated options, snapshots, text rendering, cached runs
//   - [cache]: file, Redis, and null snapshot caches with content-hashed keys
//   - [session]: live layouts with expiry, for the HTTP server
//   - [observability]: hooks for layout, cache, and server events
//   - [errors]: error codes shared by the CLI and the server
//   - [buildinfo]: version stamping
//
// [mosaic]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/mosaic
// [geom]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/geom
// [manifest]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/manifest
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/buildinfo
package pkg
