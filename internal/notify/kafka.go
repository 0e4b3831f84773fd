package notify

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

// KafkaNotifier produces events to a Kafka topic keyed by document id so
// all events of one document land on the same partition in order.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaNotifier(brokers, topic string) (*KafkaNotifier, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	n := &KafkaNotifier{producer: producer, topic: topic}
	go n.drainDeliveryReports()

	return n, nil
}

func (k *KafkaNotifier) drainDeliveryReports() {
	for e := range k.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			logrus.Errorf("kafka delivery failed: %v", m.TopicPartition.Error)
		}
	}
}

func (k *KafkaNotifier) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.DocumentID),
		Value:          payload,
	}, nil)
}

func (k *KafkaNotifier) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}
