package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitchat/internal/domain"
)

func TestMessageValidate(t *testing.T) {
	cases := []struct {
		name    string
		msg     domain.Message
		wantErr error
	}{
		{"TextOnly", domain.Message{Text: "hello"}, nil},
		{"BothEmpty", domain.Message{}, domain.ErrEmptyMessage},
		{"WhitespaceText", domain.Message{Text: "   \t"}, domain.ErrEmptyMessage},
		{"MediaWithURL", domain.Message{MediaType: domain.MediaImage, MediaURL: "https://x"}, nil},
		{"MediaWithoutURL", domain.Message{MediaType: domain.MediaImage}, domain.ErrMissingMedia},
		{"UnknownMediaType", domain.Message{MediaType: "gif", MediaURL: "https://x"}, domain.ErrInvalidInput},
		{"Mixed", domain.Message{Text: "look", MediaType: domain.MediaVideo, MediaURL: "https://v"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestContentConstructors(t *testing.T) {
	t.Run("TextTrimmed", func(t *testing.T) {
		c, err := domain.TextContent("  hi  ")
		require.NoError(t, err)
		assert.Equal(t, "hi", c.Text())
	})

	t.Run("EmptyTextRejected", func(t *testing.T) {
		_, err := domain.TextContent("   ")
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	})

	t.Run("MediaRequiresURL", func(t *testing.T) {
		_, err := domain.MediaContent(domain.MediaAudio, "")
		assert.ErrorIs(t, err, domain.ErrMissingMedia)
	})

	t.Run("MediaRequiresKind", func(t *testing.T) {
		_, err := domain.MediaContent(domain.MediaNone, "https://x")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("MixedKeepsCaption", func(t *testing.T) {
		c, err := domain.MixedContent("caption", domain.MediaImage, "https://img/1")
		require.NoError(t, err)
		kind, url := c.Media()
		assert.Equal(t, domain.MediaImage, kind)
		assert.Equal(t, "https://img/1", url)
		assert.Equal(t, "caption", c.Text())
	})
}

func TestNewMessage(t *testing.T) {
	c, err := domain.TextContent("hello")
	require.NoError(t, err)

	msg, err := domain.NewMessage("u1", "u2", "Alice", "Bob", c)
	require.NoError(t, err)
	assert.Equal(t, "u2_u1", msg.ConversationID)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, "u2", msg.ReceiverID)
	assert.NoError(t, msg.Validate())

	_, err = domain.NewMessage("u1", "u1", "Alice", "Alice", c)
	assert.ErrorIs(t, err, domain.ErrSelfChat)
}
