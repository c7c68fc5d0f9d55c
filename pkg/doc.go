// Package pkg provides the core libraries for asciiwipe text animations.
//
// # Overview
//
// asciiwipe renders text as ASCII art and animates it in and out with a
// directional wipe. The pkg directory is organized into four areas:
//
//  1. Domain: [grid], [noise], [frames], [sequence], [playback]
//  2. Glyphs: [fonts], [glyph] (FIGlet rendering via go-figure)
//  3. Orchestration: [pipeline], [animator], [timeline]
//  4. Infrastructure: [cache], [httputil], [config], [errors], [observability],
//     [buildinfo], [server]
//
// # Architecture
//
// The data flow through asciiwipe:
//
//	text entries + font
//	         ↓
//	    [glyph] (one character grid per entry)
//	         ↓
//	    [frames] (wipe frames from full grid to blank)
//	         ↓
//	    [sequence] (compose frames per mode into a program)
//	         ↓
//	    [playback] (step through the program on a clock)
//	         ↓
//	    sink: terminal, WebSocket, writer
//
// # Quick Start
//
// Build a program and play it to stdout:
//
//	runner := pipeline.NewRunner(nil, nil, glyph.NewFigletSource(), logger)
//	sink := playback.NewWriterSink(os.Stdout, true)
//	anim := animator.New(runner, sink, playback.NewRefreshClock(60), logger)
//	defer anim.Close()
//
//	err := anim.Configure(ctx, pipeline.Options{
//	    Text:      []string{"hello", "world"},
//	    Direction: "down",
//	})
//	<-anim.Done()
//
// Or drive the pure state machine yourself:
//
//	state := playback.Initial(false)
//	state, effects := playback.Step(state, cfg, program, time.Now())
//
// # Caching
//
// [pipeline.Runner] caches rendered grids and seeded programs through the
// [cache.Cache] interface, with file, Redis and MongoDB backends.
package pkg
