package server

import "sync"

// Read buffers come in three size classes; anything else is left to the GC.
var bufferClasses = [...]int{4 << 10, 32 << 10, 128 << 10}

var bufferPools [len(bufferClasses)]sync.Pool

func init() {
	for i, size := range bufferClasses {
		bufferPools[i].New = func() interface{} {
			buf := make([]byte, size)
			return &buf
		}
	}
}

// GetBuffer returns a buffer of exactly size bytes, pooled when size fits a class
func GetBuffer(size int) []byte {
	for i, class := range bufferClasses {
		if size <= class {
			buf := bufferPools[i].Get().(*[]byte)
			return (*buf)[:size]
		}
	}
	return make([]byte, size)
}

// PutBuffer returns a buffer obtained from GetBuffer to its pool
func PutBuffer(buf []byte) {
	for i, class := range bufferClasses {
		if cap(buf) == class {
			full := buf[:class]
			bufferPools[i].Put(&full)
			return
		}
	}
}
