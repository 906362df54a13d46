package export

import (
	"bufio"
	"io"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/json"
)

var jsonNull = []byte("null")

// WriteJSON writes one JSON object per row with keys in column order. An
// errored cell is written as null with its message under "<name>__error".
func WriteJSON(w io.Writer, snap *Snapshot) error {
	bw := bufio.NewWriter(w)
	obj := json.NewObjectWriter(256)

	for row := 0; row < snap.Rows; row++ {
		obj.Reset()
		for _, c := range snap.Columns {
			item := c.Items[row]
			if msg, isErr := item.Left(); isErr {
				if err := obj.WriteRaw(c.Name, jsonNull); err != nil {
					return err
				}
				if err := obj.WriteField(c.Name+ErrorSuffix, msg); err != nil {
					return err
				}
				continue
			}
			v, _ := item.Right()
			plain, err := toPlain(c.Type, v)
			if err != nil {
				return err
			}
			if err := obj.WriteField(c.Name, plain); err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "encode cell").
					WithDetail("column", c.Name).
					WithDetail("row", row)
			}
		}
		if _, err := bw.Write(obj.Bytes()); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "write json export")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "write json export")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "write json export")
	}
	return nil
}
