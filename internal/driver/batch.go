package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"docl/internal/diag"
	"docl/internal/project"
	"docl/internal/trace"
)

// CompileAll compiles progs concurrently, at most opts.Jobs at a time.
// Results keep the order of progs. A program that fails to compile only sets
// its own Result.Err; the returned error is the context error when ctx ended
// before every program ran. Programs must not share an AST; opts.Reporter is
// called from one goroutine at a time.
func CompileAll(ctx context.Context, progs []Program, opts Options) ([]*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile_all")
	defer span.End("")

	if hb := trace.StartHeartbeat(trace.FromContext(ctx), opts.Heartbeat); hb != nil {
		defer hb.Stop()
	}

	if opts.Reporter != nil {
		opts.Reporter = diag.NewSyncReporter(opts.Reporter, false)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(progs) {
		jobs = max(len(progs), 1)
	}

	results := make([]*Result, len(progs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range progs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, _ := Compile(gctx, progs[i], opts)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// BatchDigest fingerprints a batch. Programs that failed contribute a zero
// digest, so any change in outcome changes the result.
func BatchDigest(results []*Result) project.Digest {
	deps := make([]project.Digest, len(results))
	for i, r := range results {
		if r.OK() {
			deps[i] = r.Digest
		}
	}
	return project.Combine(project.Digest{}, deps...)
}
