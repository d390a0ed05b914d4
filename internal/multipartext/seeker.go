package multipartext

import (
	"fmt"
	"io"
)

// part is a reader positioned at a fixed offset within a multiReadSeeker.
type part struct {
	reader io.ReadSeeker
	start  int64
	size   int64
}

// MultiReadSeeker concatenates readers into a single io.ReadSeeker. The size of every reader is determined once,
// upfront, so the readers must not grow or shrink afterwards.
func MultiReadSeeker(readers ...io.ReadSeeker) (io.ReadSeeker, error) {
	mr := &multiReadSeeker{}
	for _, r := range readers {
		n, err := r.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, err
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		mr.parts = append(mr.parts, part{reader: r, start: mr.size, size: n})
		mr.size += n
	}
	return mr, nil
}

type multiReadSeeker struct {
	parts  []part
	offset int64
	size   int64
}

func (mr *multiReadSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += mr.offset
	case io.SeekEnd:
		offset += mr.size
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}

	if offset < 0 || offset > mr.size {
		return 0, fmt.Errorf("seek: offset %d out of range [0, %d]", offset, mr.size)
	}

	mr.offset = offset
	return offset, nil
}

func (mr *multiReadSeeker) Read(p []byte) (int, error) {
	for _, pt := range mr.parts {
		if mr.offset >= pt.start+pt.size {
			continue
		}
		if _, err := pt.reader.Seek(mr.offset-pt.start, io.SeekStart); err != nil {
			return 0, err
		}
		// Never read past the end of this part, even if the reader has more to offer.
		if remain := pt.start + pt.size - mr.offset; int64(len(p)) > remain {
			p = p[:remain]
		}
		n, err := pt.reader.Read(p)
		mr.offset += int64(n)
		if err == io.EOF {
			err = nil
		}
		if n == 0 && err == nil {
			return 0, io.ErrUnexpectedEOF
		}
		return n, err
	}

	return 0, io.EOF
}
