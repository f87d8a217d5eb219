package ciya

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/esimov/ciya/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions lists the supported image file types.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// encodableExtensions lists the file types the result can be saved as.
var encodableExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff"}

// Ops describes a batch run over files, directories, URLs or pipes.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
}

// result holds the outcome of processing a single image.
type result struct {
	path string
	err  error
}

// Execute runs the processor over the source described by op. The source can be
// a URL, a single file, a pipe or a directory, which is walked recursively
// with its images processed concurrently.
func (p *Processor) Execute(op *Ops) error {
	var (
		fs  os.FileInfo
		err error
	)
	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ CIYA", utils.StatusMessage),
		utils.DecorateText("⇢ looking for a mouth...", utils.DefaultMessage),
	)
	p.Spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80, true)

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		src, err := utils.DownloadImage(op.Src)
		if src != nil {
			defer os.Remove(src.Name())
			defer src.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		fs, err = src.Stat()
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		op.Src = src.Name()
	} else {
		// Check if the source is a pipe name or a regular file.
		if op.Src == op.PipeName {
			fs, err = os.Stdin.Stat()
		} else {
			fs, err = os.Stat(op.Src)
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		if _, err := os.Stat(op.Dst); err != nil {
			if err := os.MkdirAll(op.Dst, 0755); err != nil {
				return fmt.Errorf("unable to create the destination directory: %w", err)
			}
		}

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		var (
			wg     sync.WaitGroup
			failed int
		)
		// Process recursively the image files from the specified directory concurrently.
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, op.Src, validExtensions)

		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(p, op.Dst, ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		// Consume the channel values. A face-less image doesn't stop the batch.
		for res := range ch {
			if res.err != nil {
				failed++
			}
			op.printOpStatus(res.path, res.err)
		}

		if err := <-errc; err != nil {
			return err
		}
		if failed > 0 {
			err = fmt.Errorf("%d image(s) could not be processed", failed)
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeCharDevice == 0:
		if op.Dst != op.PipeName && !utils.HasExtension(op.Dst, encodableExtensions) {
			return fmt.Errorf("%v file type not supported", filepath.Ext(op.Dst))
		}
		err = op.process(p, op.Src, op.Dst)
		op.printOpStatus(op.Dst, err)
	}

	if err == nil {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
			utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
		)
	}
	return err
}

// consumer reads the path names from the paths channel and runs the processor over each image.
func (op *Ops) consumer(
	p *Processor,
	dest string,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		err := op.processTo(p, src, dest)

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// processTo mirrors the location of src relative to the source directory
// under dest and runs the processor over it.
func (op *Ops) processTo(p *Processor, src, dest string) error {
	rel, err := filepath.Rel(op.Src, src)
	if err != nil {
		return err
	}
	dst := filepath.Join(dest, rel)
	if _, err := imaging.FormatFromExtension(filepath.Ext(dst)); err != nil {
		// Keep the file name, but encode to a supported format.
		dst = strings.TrimSuffix(dst, filepath.Ext(dst)) + ".png"
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}
	return op.process(p, src, dst)
}

// process runs the processor over a single source and destination.
func (op *Ops) process(p *Processor, in, out string) error {
	successMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ CIYA", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the mouth has been replaced ✔", utils.SuccessMessage),
	)
	errorMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ CIYA", utils.StatusMessage),
		utils.DecorateText("processing the image failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)

	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	// Capture CTRL-C signal and restore back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	finished := make(chan struct{})
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalChan)
		close(finished)
	}()
	go func() {
		select {
		case <-signalChan:
			p.Spinner.RestoreCursor()
			if f, ok := dst.(*os.File); ok && f != os.Stdout {
				os.Remove(f.Name())
			}
			os.Exit(1)
		case <-finished:
		}
	}()

	defer closeFile(src)
	defer closeFile(dst)

	if in != op.PipeName {
		p.Spinner.SetMessage(fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ CIYA", utils.StatusMessage),
			utils.DecorateText(fmt.Sprintf("⇢ looking for a mouth in %s...", filepath.Base(in)), utils.DefaultMessage),
		))
	}
	p.Spinner.Start()
	if err := p.Process(src, dst); err != nil {
		// remove the generated image file in case of an error
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			os.Remove(f.Name())
		}
		p.Spinner.Stop(errorMsg)
		return err
	}
	p.Spinner.Stop(successMsg)

	return nil
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeFile(src)
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			closeFile(src)
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the processed image.
func (op *Ops) printOpStatus(fname string, err error) {
	if errors.Is(err, ErrNotFound) {
		fmt.Fprintf(os.Stderr, "%s\n",
			utils.DecorateText(fmt.Sprintf("\nSkipped %s: %v", filepath.Base(fname), err), utils.WarningMessage),
		)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s",
			utils.DecorateText(fmt.Sprintf("\nError processing %s", filepath.Base(fname)), utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() || !utils.HasExtension(f.Name(), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

func closeFile(v any) {
	f, ok := v.(*os.File)
	if !ok || f == os.Stdin || f == os.Stdout {
		return
	}
	if err := f.Close(); err != nil {
		log.Printf("could not close the opened file: %v", err)
	}
}
