package kafka

import (
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	. "github.com/tributary-sql/tributary/execution"
	"github.com/tributary-sql/tributary/tributary"
)

type topicSource struct {
	brokers    []string
	topic      string
	partitions int
}

func (s *topicSource) Boundedness() Boundedness {
	return ContinuousUnbounded
}

func (s *topicSource) Reader(ctx ExecutionContext) (SourceReader, error) {
	var partitions []int
	for partition := 0; partition < s.partitions; partition++ {
		if partition%ctx.Instances == ctx.Instance {
			partitions = append(partitions, partition)
		}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	readers := make([]*kafka.Reader, len(partitions))
	for i := range partitions {
		readers[i] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:   s.brokers,
			Topic:     s.topic,
			Dialer:    dialer,
			Partition: partitions[i],
			MinBytes:  10e1,
			MaxBytes:  10e7,
		})
	}
	return &topicReader{
		readers: readers,
	}, nil
}

type topicReader struct {
	readers []*kafka.Reader

	produceMu sync.Mutex
}

func (r *topicReader) Run(ctx ExecutionContext, produce ProduceFn) error {
	if len(r.readers) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	errs := make(chan error, len(r.readers))
	for i := range r.readers {
		go func(reader *kafka.Reader) {
			errs <- r.readPartition(ctx, reader, produce)
		}(r.readers[i])
	}
	for range r.readers {
		if err := <-errs; err != nil {
			return err
		}
	}
	return nil
}

func (r *topicReader) readPartition(ctx ExecutionContext, reader *kafka.Reader, produce ProduceFn) error {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("couldn't read message: %w", err)
		}
		record := NewRecord([]tributary.Value{
			tributary.NewInt(msg.Offset),
			tributary.NewString(string(msg.Key)),
			tributary.NewString(string(msg.Value)),
		})
		r.produceMu.Lock()
		err = produce(ProduceFromExecutionContext(ctx), record)
		r.produceMu.Unlock()
		if err != nil {
			return fmt.Errorf("couldn't produce record: %w", err)
		}
	}
}

func (r *topicReader) Close() error {
	for i := range r.readers {
		if err := r.readers[i].Close(); err != nil {
			return fmt.Errorf("couldn't close partition reader: %w", err)
		}
	}
	return nil
}
