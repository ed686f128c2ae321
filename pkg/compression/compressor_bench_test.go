package compression

import (
	"bytes"
	"io"
	"testing"
)

var benchSink []byte

func BenchmarkStreamWrite(b *testing.B) {
	data := bytes.Repeat([]byte("1,alpha,true,3.14\n"), 1024)

	for _, algo := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2} {
		b.Run(string(algo), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				w, err := NewStreamWriter(io.Discard, algo, Default)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := w.Write(data); err != nil {
					b.Fatal(err)
				}
				if err := w.Close(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkStreamRead(b *testing.B) {
	data := bytes.Repeat([]byte("1,alpha,true,3.14\n"), 1024)

	for _, algo := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2} {
		var compressed bytes.Buffer
		w, err := NewStreamWriter(&compressed, algo, Default)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			b.Fatal(err)
		}
		if err := w.Close(); err != nil {
			b.Fatal(err)
		}

		b.Run(string(algo), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				r, err := NewStreamReader(bytes.NewReader(compressed.Bytes()), algo)
				if err != nil {
					b.Fatal(err)
				}
				benchSink, err = io.ReadAll(r)
				if err != nil {
					b.Fatal(err)
				}
				r.Close()
			}
		})
	}
}
