// Package formbridge provides a composable orchestration layer for
// record-oriented form systems. It sequences multi-step record mutations
// (open page → switch mode → write fields → save) against an external
// form server and tracks session and workflow lifecycle across calls.
//
// FormBridge is designed as a library, not a service. Import it, configure
// a store and the three form collaborators, and call the record operations
// as ordinary Go functions.
//
// # Quick Start
//
//	b, err := formbridge.New(
//	    formbridge.WithStore(memory.New()),
//	)
//
//	eng, err := engine.Build(b,
//	    engine.WithResolver(resolver),
//	    engine.WithActionInvoker(actions),
//	    engine.WithFieldWriter(writer),
//	)
//
//	res, err := eng.CreateRecord(ctx, pipeline.CreateRequest{
//	    PageID: "21",
//	    Fields: form.Fields{"Name": form.Value("Acme Corp")},
//	})
//
// # Architecture
//
// FormBridge follows a composable store pattern where each subsystem
// (session, workflow) defines its own store interface. A single backend
// implements all of them.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based,
// compile-time safe identifiers. Page context handles are a dedicated
// composite identifier type with one documented parse/serialize round trip.
package formbridge
