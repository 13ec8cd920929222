package unpack

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/doublex/doublex/internal/config"
)

// UnpackDirectory walks root for packed extensions and unpacks them with a
// pool of workers. A producer goroutine feeds paths into a channel; workers
// drain it until the walk finishes or ctx is canceled. Returns how many
// extensions were processed.
//
// dest == "" places each extension next to its archive, like single-file
// mode does.
func (u *Unpacker) UnpackDirectory(ctx context.Context, root, dest string, workers int) (int, error) {
	if workers < config.DefaultUnpackWorkers {
		workers = config.DefaultUnpackWorkers
	}
	if workers > config.MaxUnpackWorkers {
		workers = config.MaxUnpackWorkers
	}

	paths := make(chan string)
	var walkErr error
	go func() {
		defer close(paths)
		walkErr = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, config.CrxFileExt) {
				return nil
			}
			select {
			case paths <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	var processed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for crx := range paths {
				log := u.log.With("worker", worker, "crx", crx)
				log.Info("started unpacking")
				target := dest
				if target == "" {
					target = filepath.Dir(crx)
				}
				if err := u.UnpackExtension(crx, target); err != nil {
					log.Error("unpack failed", "error", err)
					continue
				}
				log.Info("finished unpacking")
				processed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	count := int(processed.Load())
	u.log.Info("processed extensions", "count", count)
	if walkErr != nil && ctx.Err() == nil {
		return count, walkErr
	}
	return count, ctx.Err()
}
