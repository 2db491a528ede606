/*
Package recorder records the span of one unit of work.

# Overview

A Recorder moves through three phases:

	Unstarted --Start--> Active --Finish--> Finished

Start takes the inbound propagation context, always mints a fresh span id
(the inbound span id becomes the parent), and records the "sr" event.
While active, callers add events and key/value annotations. Finish records
"ss" and returns the frozen span when the context is sampled or carries a
debug flag.

Finish without Start never fails: the recorder starts an empty context on
the spot and marks the span with the NoPriorContext event, so a request
that skipped the inbound phase degrades to an untraced request.

# Usage

	tracer := recorder.NewTracer(recorder.Config{ServiceName: "checkout"}, logger, metrics)

	rec := tracer.Acquire()
	defer tracer.Release(rec)

	rec.Start(inbound, "GET")
	ctx = recorder.NewContext(ctx, rec)
	recorder.Annotate(ctx, "http.uri", "/cart")

	if span, ok := rec.Finish(); ok {
		// encode and ship span
	}

Recorders are pooled. Acquire clears the recorder and its store before
handing it out, so a recycled recorder never carries an earlier request's
context.
*/
package recorder
