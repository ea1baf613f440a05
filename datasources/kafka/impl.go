package kafka

import (
	"context"
	"fmt"

	"github.com/tributary-sql/tributary/physical"
	"github.com/tributary-sql/tributary/tributary"
)

type impl struct {
	brokers    []string
	topic      string
	partitions int
}

func (i *impl) Scan(ctx context.Context, schema tributary.Schema, predicates []physical.Expression) (physical.ScanVariant, error) {
	if len(predicates) > 0 {
		return physical.ScanVariant{}, fmt.Errorf("predicate pushdown is not supported for kafka topics")
	}
	// There's no point running more consumers than the topic has partitions.
	declaredParallelism := i.partitions
	return physical.ScanVariant{
		VariantType: physical.ScanVariantTypeSourceReader,
		SourceReader: &physical.SourceReaderScan{
			Source: &topicSource{
				brokers:    i.brokers,
				topic:      i.topic,
				partitions: i.partitions,
			},
			DeclaredParallelism: &declaredParallelism,
		},
	}, nil
}
