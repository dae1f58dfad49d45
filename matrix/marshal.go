package matrix

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/axisopt/axisopt/internal/ioutils"
)

const headerLen = 2 * 8

type header struct {
	// length in bytes of each section
	labelsLen uint64
	bodyLen   uint64
}

func (h *header) toBytes() []byte {
	buf := make([]byte, 0, headerLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.labelsLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.bodyLen)
	return buf
}

func (h *header) fromBytes(buf []byte) {
	h.labelsLen = binary.LittleEndian.Uint64(buf[:8])
	h.bodyLen = binary.LittleEndian.Uint64(buf[8:16])
}

// viewBody is the cbor-encoded remainder of a View; the int64 label slices
// travel in a separate integer-compressed section.
type viewBody struct {
	Lower             []float64
	Upper             []float64
	Integer           []bool
	Values            []float64
	RHS               []float64
	Signs             []Sign
	Objective         []float64
	ObjectiveConstant float64
	Sense             Sense
}

// ToBytes serializes the view: a fixed header, an integer-compressed labels
// section (VarLabels, ConLabels, Rows, Cols) and a cbor body.
func (v *View) ToBytes() ([]byte, error) {
	var labels, body []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		labels, err = v.labelsToBytes()
		return err
	})
	g.Go(func() error {
		var err error
		body, err = v.bodyToBytes()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := header{
		labelsLen: uint64(len(labels)),
		bodyLen:   uint64(len(body)),
	}
	buf := h.toBytes()
	buf = append(buf, labels...)
	buf = append(buf, body...)
	return buf, nil
}

// FromBytes deserializes the view from a byte slice and returns the number of
// bytes read.
func (v *View) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}
	h := new(header)
	h.fromBytes(data)
	if uint64(len(data)) < headerLen+h.labelsLen+h.bodyLen {
		return 0, errors.New("invalid data length")
	}
	if err := v.labelsFromBytes(data[headerLen : headerLen+h.labelsLen]); err != nil {
		return 0, err
	}
	if err := v.bodyFromBytes(data[headerLen+h.labelsLen : headerLen+h.labelsLen+h.bodyLen]); err != nil {
		return 0, err
	}
	return headerLen + int(h.labelsLen) + int(h.bodyLen), nil
}

// WriteTo writes the serialized view to w.
func (v *View) WriteTo(w io.Writer) (int64, error) {
	buf, err := v.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom reads a serialized view from r.
func (v *View) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	n, err := v.FromBytes(buf)
	return int64(n), err
}

func (v *View) labelsToBytes() ([]byte, error) {
	// label, row and col vectors are ascending or near-ascending integers;
	// they compress very well
	var buf bytes.Buffer
	buf.Grow(8 * (len(v.VarLabels) + len(v.ConLabels) + 2*len(v.Rows)))
	var buf64 []uint64
	var err error
	for _, s := range [][]int64{v.VarLabels, v.ConLabels, v.Rows, v.Cols} {
		buf64, err = ioutils.CompressAndWriteInts64(&buf, s, buf64)
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (v *View) labelsFromBytes(in []byte) error {
	r := bytes.NewReader(in)
	for _, dst := range []*[]int64{&v.VarLabels, &v.ConLabels, &v.Rows, &v.Cols} {
		_, s, err := ioutils.ReadAndDecompressInts64(r)
		if err != nil {
			return err
		}
		*dst = s
	}
	return nil
}

func (v *View) bodyToBytes() ([]byte, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	body := viewBody{
		Lower:             v.Lower,
		Upper:             v.Upper,
		Integer:           v.Integer,
		Values:            v.Values,
		RHS:               v.RHS,
		Signs:             v.Signs,
		Objective:         v.Objective,
		ObjectiveConstant: v.ObjectiveConstant,
		Sense:             v.Sense,
	}
	return enc.Marshal(&body)
}

func (v *View) bodyFromBytes(in []byte) error {
	var body viewBody
	if err := cbor.Unmarshal(in, &body); err != nil {
		return fmt.Errorf("unmarshal view body: %w", err)
	}
	v.Lower = body.Lower
	v.Upper = body.Upper
	v.Integer = body.Integer
	v.Values = body.Values
	v.RHS = body.RHS
	v.Signs = body.Signs
	v.Objective = body.Objective
	v.ObjectiveConstant = body.ObjectiveConstant
	v.Sense = body.Sense
	return nil
}
