package fastcrc

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bodgit/fastcrc/crc32"
	"github.com/bodgit/fastcrc/sfv"
)

func hidden(info os.FileInfo) bool {
	return info.Name()[0] == '.'
}

func (s *Scanner) findDirectories(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(dir string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if dir != base && hidden(info) {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a directory
			if !info.Mode().IsDir() {
				return nil
			}

			select {
			case out <- dir:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// listFiles returns the regular files directly inside dir that should be
// checksummed.
func (s *Scanner) listFiles(dir string) ([]os.FileInfo, error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := infos[:0]
	for _, info := range infos {
		if hidden(info) || !info.Mode().IsRegular() || info.Name() == sfv.Filename {
			continue
		}
		if !sfv.ValidName(info.Name()) {
			s.logger.Printf("Skipping \"%s\", name cannot be stored in a manifest\n", filepath.Join(dir, info.Name()))
			continue
		}
		if info.Size() > MaxFileSize {
			s.logger.Printf("Skipping \"%s\", larger than %d bytes\n", filepath.Join(dir, info.Name()), MaxFileSize)
			continue
		}
		files = append(files, info)
	}
	return files, nil
}

func (s *Scanner) scanDirectory(dir, scanID string) error {
	files, err := s.listFiles(dir)
	if err != nil {
		return err
	}

	m := sfv.New(s.engine.Convention())
	for _, info := range files {
		file := filepath.Join(dir, info.Name())

		crc, size, err := s.crcFile(file)
		if err != nil {
			return err
		}
		s.logger.Printf("%s %s\n", formatCRC(crc), file)

		if s.db != nil {
			if err := s.db.Record(scanID, file, size, crc); err != nil {
				return err
			}
		}

		if err := m.Set(info.Name(), crc); err != nil {
			return err
		}
	}

	if m.Length() == 0 {
		return nil
	}

	b, err := m.MarshalText()
	if err != nil {
		return err
	}

	return ioutil.WriteFile(filepath.Join(dir, sfv.Filename), b, 0644)
}

func (s *Scanner) directoryWorker(ctx context.Context, in <-chan string, fn func(string) error) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for dir := range in {
			if err := fn(dir); err != nil {
				errc <- err
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from errs. The remaining stages are
// cancelled and drained so nothing is still running when it returns.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
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

func (s *Scanner) run(path string, fn func(string) error) error {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	dirs, errc, err := s.findDirectories(ctx, path)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < s.workers; i++ {
		errc, err := s.directoryWorker(ctx, dirs, fn)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}

// Scan checksums every file below path, recording the results in the catalog
// and writing a manifest into each directory.
func (s *Scanner) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var scanID string
	if s.db != nil {
		if scanID, err = s.db.BeginScan(dir, s.engine); err != nil {
			return err
		}
	}

	return s.run(dir, func(d string) error {
		return s.scanDirectory(d, scanID)
	})
}

// Result summarises a Check.
type Result struct {
	Checked    int
	Mismatched []string
	Missing    []string
}

// OK reports whether every file matched its manifest.
func (r *Result) OK() bool {
	return len(r.Mismatched) == 0 && len(r.Missing) == 0
}

func (s *Scanner) checkDirectory(dir string, r *Result, mu *sync.Mutex) error {
	b, err := ioutil.ReadFile(filepath.Join(dir, sfv.Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	m := new(sfv.Manifest)
	if err := m.UnmarshalText(b); err != nil {
		return err
	}

	// The manifest dictates the convention, the scanner the algorithm
	engine, err := crc32.New(s.engine.Algorithm(), m.Convention)
	if err != nil {
		return err
	}
	checker := *s
	checker.engine = engine

	for _, name := range m.Names() {
		file := filepath.Join(dir, name)
		want, _ := m.Get(name)

		crc, _, err := checker.crcFile(file)

		mu.Lock()
		switch {
		case os.IsNotExist(err):
			s.logger.Printf("Missing \"%s\"\n", file)
			r.Missing = append(r.Missing, file)
		case err != nil:
			mu.Unlock()
			return err
		case crc != want:
			s.logger.Printf("Mismatch for \"%s\", expected %s got %s\n", file, formatCRC(want), formatCRC(crc))
			r.Mismatched = append(r.Mismatched, file)
		}
		r.Checked++
		mu.Unlock()
	}

	return nil
}

// Check verifies every manifest below path against the files it lists.
func (s *Scanner) Check(path string) (*Result, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	r := new(Result)
	var mu sync.Mutex

	if err := s.run(dir, func(d string) error {
		return s.checkDirectory(d, r, &mu)
	}); err != nil {
		return nil, err
	}

	sort.Strings(r.Mismatched)
	sort.Strings(r.Missing)

	return r, nil
}
