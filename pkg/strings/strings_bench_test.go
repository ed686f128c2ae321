package strings

import (
	"fmt"
	"testing"
)

var benchSink string

func BenchmarkBytesToString(b *testing.B) {
	data := []byte("a moderately sized cell value for conversion")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		benchSink = BytesToString(data)
	}
}

func BenchmarkStdString(b *testing.B) {
	data := []byte("a moderately sized cell value for conversion")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		benchSink = string(data)
	}
}

func BenchmarkSprintf(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		benchSink = Sprintf("row %d of %d", i, b.N)
	}
}

func BenchmarkFmtSprintf(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		benchSink = fmt.Sprintf("row %d of %d", i, b.N)
	}
}

func BenchmarkPooledBuilder(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bd := GetBuilder(Small)
		bd.WriteString("header")
		bd.WriteByte(',')
		bd.WriteString("value")
		benchSink = Clone(bd.String())
		PutBuilder(bd, Small)
	}
}
