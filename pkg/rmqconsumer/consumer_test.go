package rmqconsumer

import (
	"encoding/json"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"skinlib-api/config"
	"skinlib-api/internal/infrastructure/mq"
	"skinlib-api/internal/interface/api/rest/dto/texture"
)

func Test_delivery_Table(t *testing.T) {
	type tc struct {
		name       string
		routingKey string
		wantAction string
	}
	cases := []tc{
		{"uploaded", mq.ActionUploaded, "TextureUploaded"},
		{"deleted", mq.ActionDeleted, "TextureDeleted"},
		{"privacy", mq.ActionPrivacy, "TexturePrivacyChanged"},
		{"renamed", mq.ActionRenamed, "TextureRenamed"},
		{"unknown -> empty", "texture.liked", ""},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			c := &Consumer{log: zap.New(core)}

			e := mq.NewEvent(tt.routingKey, 3, texture.Texture{ID: 7, Hash: "abc", Public: true})
			body, err := json.Marshal(e)
			require.NoError(t, err)

			require.NoError(t, c.delivery(amqp091.Delivery{RoutingKey: tt.routingKey, Body: body}))

			entries := logs.FilterMessage("texture event").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.wantAction, fields["action"])
			assert.Equal(t, int64(7), fields["tid"])
			assert.Equal(t, int64(3), fields["uid"])
			assert.Equal(t, "abc", fields["hash"])
		})
	}
}

func Test_delivery_BadBody(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}

	err := c.delivery(amqp091.Delivery{RoutingKey: mq.ActionDeleted, Body: []byte("{")})
	assert.ErrorContains(t, err, "decode texture.deleted event")
}

func TestConnect_InvalidDSN(t *testing.T) {
	l := zap.NewNop()
	c := New(config.MQ{}, l, nil)

	err := c.Connect("amqp://bad:://dsn")
	require.Error(t, err)
	require.Nil(t, c.chConsume)
	require.Nil(t, c.conn)
}
