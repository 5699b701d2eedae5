package audio

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/youpy/go-wav"
)

type constProcessor struct{ l, r int16 }

func (c constProcessor) Process(in, out [][]int16) {
	for i := range out[0] {
		out[0][i] = c.l
		out[1][i] = c.r
	}
}

func readTestWav(t *testing.T, file string) (left, right []int) {
	t.Helper()
	f, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		t.Fatal(err)
	}
	if format.NumChannels != 2 || format.SampleRate != SampleRate || format.BitsPerSample != 16 {
		t.Fatalf("unexpected format: %+v", format)
	}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range samples {
			left = append(left, r.IntValue(s, 0))
			right = append(right, r.IntValue(s, 1))
		}
	}
	return left, right
}

func TestWavSinkOffline(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.wav")
	s, err := newWavSink(constProcessor{300, -300}, SinkConfig{
		Kind:    "wav",
		File:    file,
		Length:  100 * time.Millisecond,
		Offline: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Wait(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}

	left, right := readTestWav(t, file)
	if want, got := 34*BlockSize, len(left); want != got {
		t.Fatalf("want %v frames, got %v", want, got)
	}
	for i := range left {
		if left[i] != 300 || right[i] != -300 {
			t.Fatalf("frame %d: want 300/-300, got %v/%v", i, left[i], right[i])
		}
	}
}

func TestWavSinkStopPads(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.wav")
	s, err := newWavSink(constProcessor{1, 1}, SinkConfig{
		File:   file,
		Length: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}

	left, _ := readTestWav(t, file)
	if want, got := s.total, len(left); want != got {
		t.Errorf("want file padded to %v frames, got %v", want, got)
	}
}

func TestWavSinkConfig(t *testing.T) {
	if _, err := newWavSink(constProcessor{}, SinkConfig{Length: time.Second}); err == nil {
		t.Error("want error without an output file")
	}
	file := filepath.Join(t.TempDir(), "out.wav")
	if _, err := newWavSink(constProcessor{}, SinkConfig{File: file, Length: time.Millisecond}); err == nil {
		t.Error("want error for a length shorter than one block")
	}
}

func TestNullSink(t *testing.T) {
	s, err := NewSink(SinkConfig{Kind: "null"}, constProcessor{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSink(SinkConfig{Kind: "jack"}, constProcessor{}); err == nil {
		t.Error("want error for an unknown sink")
	}
}
