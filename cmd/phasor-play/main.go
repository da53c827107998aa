package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phasoraudio/phasor"
	"github.com/phasoraudio/phasor/oto"
	"github.com/phasoraudio/phasor/version"
)

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the original patch file is.")
	play := flag.Bool("p", false, "Play the input patches (default behaviour when no other output is defined).")
	rawOut := flag.Bool("r", false, "Output the rendered patch as .raw file. By default, saves mono float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the rendered patch as .wav file. By default, saves mono float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	levels := flag.Bool("l", false, "Print the peak and RMS levels of the rendered audio.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the file
	}
	var audioContext *oto.Context
	if *play {
		var err error
		audioContext, err = oto.NewContext()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
	}
	process := func(filename string) error {
		output := func(extension string, contents []byte) error {
			if *stdout {
				os.Stdout.Write(contents)
				return nil
			}
			_, name := filepath.Split(filename)
			dir := *directory
			if dir == "" {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
				}
			}
			name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
			f := filepath.Join(dir, name)
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", dir, err)
			}
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			return nil
		}
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		var patch patchSpec
		if err := yaml.Unmarshal(inputBytes, &patch); err != nil {
			return fmt.Errorf("the patch could not be parsed as .yml: %v", err)
		}
		synth, bank, err := patch.build(filepath.Dir(filename))
		if err != nil {
			return fmt.Errorf("could not build patch: %v", err)
		}
		buffer, err := patch.render(synth, bank)
		if err != nil {
			return fmt.Errorf("could not render patch: %v", err)
		}
		if *levels {
			peak, rms := phasor.Peak(buffer), phasor.RMS(buffer)
			fmt.Fprintf(os.Stderr, "%v: peak %.2f dB, RMS %.2f dB\n", filename, phasor.Decibels(peak), phasor.Decibels(rms))
		}
		if *rawOut {
			raw, err := phasor.Raw(buffer, *pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(".raw", raw); err != nil {
				return fmt.Errorf("error outputting .raw file: %v", err)
			}
		}
		if *wavOut {
			wav, err := phasor.Wav(buffer, *pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(".wav", wav); err != nil {
				return fmt.Errorf("error outputting .wav file: %v", err)
			}
		}
		if *play {
			encoded := make([]byte, len(buffer)*phasor.FormatF32.Width())
			if err := phasor.FormatF32.Encode(buffer, encoded); err != nil {
				return fmt.Errorf("could not encode audio for playback: %v", err)
			}
			player := audioContext.Play(bytes.NewReader(encoded))
			for player.IsPlaying() {
				time.Sleep(10 * time.Millisecond)
			}
			player.Close()
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files, err := filepath.Glob(filepath.Join(param, "*.yml"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for yml files: %v\n", param, err)
				retval = 1
				continue
			}
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Phasor command line utility for playing .yml patch files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}

// render triggers the patch and samples it for its full duration, releasing
// the note at the configured time if one is set.
func (p *patchSpec) render(synth phasor.Synth, bank *phasor.SampleBank) ([]float64, error) {
	if p.Duration <= 0 {
		return nil, fmt.Errorf("patch duration must be positive, got %v", p.Duration)
	}
	frequency := p.Play.Frequency
	if frequency == 0 {
		frequency = 440
	}
	volume := p.Play.Volume
	if volume == 0 {
		volume = 1
	}
	synth.Play(frequency, volume)
	interval := phasor.PeriodOf(phasor.SampleRate)
	total := int(p.Duration * phasor.SampleRate)
	releaseAt := total
	if p.Release > 0 && p.Release < p.Duration {
		releaseAt = int(p.Release * phasor.SampleRate)
	}
	held := phasor.Render(synth, bank, phasor.Time{}, interval, releaseAt, 0)
	if releaseAt >= total {
		return held, nil
	}
	synth.Release()
	start := phasor.Time{}
	for i := 0; i < releaseAt; i++ {
		start = start.Add(interval)
	}
	tail := phasor.Render(synth, bank, start, interval, total-releaseAt, 0)
	return append(held, tail...), nil
}
