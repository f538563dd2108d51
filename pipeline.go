package stir

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
)

const decodeWorkers = 4

type decoded struct {
	file  string
	image image.Image
}

func feedFiles(ctx context.Context, files []string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for _, file := range files {
			select {
			case out <- file:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func decodeFile(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return m, nil
}

func (s *Stir) decodeWorker(ctx context.Context, in <-chan string, out chan<- decoded, wg *sync.WaitGroup) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for file := range in {
			m, err := decodeFile(file)
			if err != nil {
				errc <- err
				return
			}

			s.logger.Printf("Decoded \"%s\" (%dx%d)\n", file, m.Bounds().Dx(), m.Bounds().Dy())

			select {
			case out <- decoded{file, m}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// decodeImages decodes every file using a small pool of workers. The
// result is keyed by file name.
func (s *Stir) decodeImages(files []string) (map[string]image.Image, error) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	in := feedFiles(ctx, files)

	out := make(chan decoded)
	var wg sync.WaitGroup
	wg.Add(decodeWorkers)
	for i := 0; i < decodeWorkers; i++ {
		errcList = append(errcList, s.decodeWorker(ctx, in, out, &wg))
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	images := make(map[string]image.Image, len(files))
	for d := range out {
		images[d.file] = d.image
	}

	// Unblock the feeder if every worker gave up early
	cancelFunc()

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	return images, nil
}
