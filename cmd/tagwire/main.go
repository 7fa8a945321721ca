package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/audiotag/tagwire/bridge"
	"github.com/audiotag/tagwire/frame"
	"github.com/audiotag/tagwire/mempool"
	"github.com/audiotag/tagwire/tags"
)

func main() {
	var (
		frameFile   = flag.String("frame", "", "Path to a framed record to decode and print")
		encode      = flag.Bool("encode", false, "Build a framed record from the field flags")
		outFile     = flag.String("o", "", "Output file for -encode (default stdout)")
		wasmFile    = flag.String("wasm", "", "Path to a tag-reader guest module")
		audioFile   = flag.String("audio", "", "Audio file handed to the guest")
		configPath  = flag.String("config", "", "Bridge configuration file")
		interactive = flag.Bool("i", false, "Interactive frame inspector")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	td := fieldFlags()
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			bridge.SetLogger(l)
		}
	}

	var err error
	switch {
	case *interactive:
		if *frameFile == "" {
			err = fmt.Errorf("-i requires -frame <file>")
		} else {
			err = runInteractive(*frameFile)
		}
	case *frameFile != "":
		err = printFrame(*frameFile)
	case *encode:
		err = encodeFrame(td, *outFile)
	case *wasmFile != "" || *configPath != "":
		err = runGuest(*configPath, *wasmFile, *audioFile)
	default:
		fmt.Fprintln(os.Stderr, "Usage: tagwire -frame <file>            decode and print a frame")
		fmt.Fprintln(os.Stderr, "       tagwire -frame <file> -i         interactive inspector")
		fmt.Fprintln(os.Stderr, "       tagwire -encode [-title ...] [-o file]")
		fmt.Fprintln(os.Stderr, "       tagwire -wasm <module> -audio <file> [-config file]")
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fieldFlags registers a flag per record field and returns the record they
// populate. Flag names match the wire keys.
func fieldFlags() *tags.TagData {
	td := &tags.TagData{}
	flag.StringVar(&td.Title, "title", "", "Title field")
	flag.StringVar(&td.Artist, "artist", "", "Artist field")
	flag.StringVar(&td.Album, "album", "", "Album field")
	flag.StringVar(&td.Genre, "genre", "", "Genre field")
	flag.StringVar(&td.Comment, "comment", "", "Comment field")
	flag.StringVar(&td.AlbumArtist, "albumArtist", "", "Album artist field")
	flag.StringVar(&td.Composer, "composer", "", "Composer field")
	uintVar := func(p *uint32, name string) {
		flag.Func(name, name+" field", func(s string) error {
			var v uint64
			if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
				return err
			}
			if v > 1<<32-1 {
				return fmt.Errorf("%s out of range", name)
			}
			*p = uint32(v)
			return nil
		})
	}
	uintVar(&td.Year, "year")
	uintVar(&td.Track, "track")
	uintVar(&td.Disc, "disc")
	uintVar(&td.BPM, "bpm")
	uintVar(&td.Bitrate, "bitrate")
	uintVar(&td.SampleRate, "sampleRate")
	uintVar(&td.Channels, "channels")
	uintVar(&td.Length, "length")
	uintVar(&td.LengthMs, "lengthMs")
	return td
}

func printFrame(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}

	payload, err := frame.Payload(data)
	if err != nil {
		return err
	}

	arena := mempool.NewArena(len(payload))
	defer arena.Release()

	td, err := tags.Decode(payload, arena)
	if err != nil {
		return err
	}

	fmt.Printf("Frame: %s (%d payload bytes)\n\n", path, len(payload))
	printRecord(td)
	return nil
}

func printRecord(td *tags.TagData) {
	fmt.Printf("  title:       %s\n", td.Title)
	fmt.Printf("  artist:      %s\n", td.Artist)
	fmt.Printf("  album:       %s\n", td.Album)
	fmt.Printf("  albumArtist: %s\n", td.AlbumArtist)
	fmt.Printf("  composer:    %s\n", td.Composer)
	fmt.Printf("  genre:       %s\n", td.Genre)
	fmt.Printf("  comment:     %s\n", td.Comment)
	fmt.Printf("  year:        %d\n", td.Year)
	fmt.Printf("  track:       %d\n", td.Track)
	fmt.Printf("  disc:        %d\n", td.Disc)
	fmt.Printf("  bpm:         %d\n", td.BPM)
	fmt.Printf("  bitrate:     %d kb/s\n", td.Bitrate)
	fmt.Printf("  sampleRate:  %d Hz\n", td.SampleRate)
	fmt.Printf("  channels:    %d\n", td.Channels)
	fmt.Printf("  length:      %d s (%d ms)\n", td.Length, td.LengthMs)
}

func encodeFrame(td *tags.TagData, outFile string) error {
	payload, err := tags.AppendEncode(td, nil)
	if err != nil {
		return err
	}
	framed, err := frame.AppendFrame(nil, payload)
	if err != nil {
		return err
	}

	if outFile == "" {
		_, err = os.Stdout.Write(framed)
		return err
	}
	if err := os.WriteFile(outFile, framed, 0o644); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(framed), outFile)
	return nil
}

func runGuest(configPath, wasmFile, audioFile string) error {
	if audioFile == "" {
		return fmt.Errorf("-wasm requires -audio <file>")
	}

	cfg, err := bridge.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if wasmFile != "" {
		cfg.ModulePath = wasmFile
	}

	audio, err := os.ReadFile(audioFile)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}

	ctx := context.Background()
	b, err := bridge.New(ctx, *cfg)
	if err != nil {
		return err
	}
	defer b.Close(ctx)

	td, err := b.ReadTags(ctx, audio)
	if err != nil {
		return err
	}

	fmt.Printf("Tags for %s:\n\n", audioFile)
	printRecord(td)
	return nil
}
