package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	DesignEvents *DesignEventService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	designEvents := InitDesignEventService(channel)
	if designEvents == nil {
		panic("Failed to initialize Design event service")
	}

	produceInstance = &Produce{
		DesignEvents: designEvents,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
