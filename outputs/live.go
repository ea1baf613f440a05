package outputs

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"github.com/tidwall/btree"

	"github.com/tributary-sql/tributary/outputs/formats"
	"github.com/tributary-sql/tributary/tributary"
)

// LivePrinter redraws the output in place as records arrive, keeping the most
// recent rows. It's used for unbounded scans, where a run never finishes and
// an append-only sink would just scroll.
type LivePrinter struct {
	schema   tributary.Schema
	format   func(io.Writer) formats.Format
	keepLast int

	mu         sync.Mutex
	rows       *btree.BTreeG[liveRow]
	nextRowKey int64
	writer     *uilive.Writer
	lastUpdate time.Time
}

type liveRow struct {
	key    int64
	values []tributary.Value
}

func NewLivePrinter(format func(io.Writer) formats.Format, keepLast int) *LivePrinter {
	return &LivePrinter{
		format:   format,
		keepLast: keepLast,
		rows: btree.NewBTreeG(func(a, b liveRow) bool {
			return a.key < b.key
		}),
		writer: uilive.New(),
	}
}

func (p *LivePrinter) SetSchema(schema tributary.Schema) {
	p.schema = schema
}

func (p *LivePrinter) Write(values []tributary.Value) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rows.Set(liveRow{key: p.nextRowKey, values: values})
	p.nextRowKey++
	for p.rows.Len() > p.keepLast {
		if oldest, ok := p.rows.Min(); ok {
			p.rows.Delete(oldest)
		}
	}

	if time.Since(p.lastUpdate) > time.Second/4 {
		p.lastUpdate = time.Now()
		return p.render()
	}
	return nil
}

func (p *LivePrinter) render() error {
	var buf bytes.Buffer
	format := p.format(&buf)
	format.SetSchema(p.schema)
	var err error
	p.rows.Ascend(liveRow{}, func(r liveRow) bool {
		err = format.Write(r.values)
		return err == nil
	})
	if err != nil {
		return err
	}
	if err := format.Close(); err != nil {
		return err
	}
	if _, err := buf.WriteTo(p.writer); err != nil {
		return err
	}
	return p.writer.Flush()
}

func (p *LivePrinter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render()
}
