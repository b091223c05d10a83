package integrations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestAnalyzeMetadataKeepsOnlyOfferedIDs(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n{\"category_ids\":[3,99,3],\"allergens\":[4],\"appliances\":[7,1]}\n```"}
	a := NewAssistant(gen)

	meta, err := a.AnalyzeMetadata(context.Background(), "Tacos", "Corn tortillas", MetadataOptions{
		Categories: []RefOption{{ID: 3, Name: "Mexican"}},
		Allergens:  []RefOption{{ID: 4, Name: "Dairy"}},
		Appliances: []RefOption{{ID: 1, Name: "Stove"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, meta.CategoryIDs)
	assert.Equal(t, []int{4}, meta.Allergens)
	assert.Equal(t, []int{1}, meta.Appliances)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"Tacos"`)
	assert.Contains(t, gen.prompts[0], "Mexican")
}

func TestAnalyzeMetadataRejectsNonJSON(t *testing.T) {
	a := NewAssistant(&stubGenerator{reply: "I think it is Mexican food."})
	_, err := a.AnalyzeMetadata(context.Background(), "Tacos", "", MetadataOptions{})
	assert.Error(t, err)
}

func TestAssistantPassesGeneratorErrors(t *testing.T) {
	boom := errors.New("quota")
	a := NewAssistant(&stubGenerator{err: boom})

	_, err := a.SuggestDescription(context.Background(), "Tacos")
	assert.ErrorIs(t, err, boom)
	_, err = a.EnhanceDescription(context.Background(), "Tacos", "good")
	assert.ErrorIs(t, err, boom)
}

func TestDisabledIntegrations(t *testing.T) {
	_, err := DisabledAssistant{}.SuggestDescription(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = NewGemini(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewCloudinaryPhotos("", "taist")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewStripePayments("")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewRabbitPublisher("")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewRedisCodes(context.Background(), "", "", 0)
	assert.ErrorIs(t, err, ErrDisabled)

	pm, err := NoPayments{}.DefaultPaymentMethod(context.Background(), "cus_1")
	assert.NoError(t, err)
	assert.Nil(t, pm)
}

func TestNewCodeIsSixDigits(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		assert.Regexp(t, digits, code)
	}
}

func TestMemoryCodes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	codes := NewMemoryCodes()
	codes.now = func() time.Time { return now }

	require.NoError(t, codes.Save(ctx, "5551234567", "123456", CodeTTL))
	assert.ErrorIs(t, codes.Consume(ctx, "5551234567", "000000"), ErrCodeMismatch)
	assert.NoError(t, codes.Consume(ctx, "5551234567", "123456"))
	assert.ErrorIs(t, codes.Consume(ctx, "5551234567", "123456"), ErrCodeExpired, "codes are single use")

	require.NoError(t, codes.Save(ctx, "5559990000", "654321", CodeTTL))
	now = now.Add(CodeTTL + time.Second)
	assert.ErrorIs(t, codes.Consume(ctx, "5559990000", "654321"), ErrCodeExpired)
}

func TestDiskPhotos(t *testing.T) {
	dir := t.TempDir()
	store := DiskPhotos{Dir: dir, BaseURL: "http://localhost:8080/uploads/"}

	url, err := store.Upload(context.Background(), strings.NewReader("jpeg bytes"), "My Face.JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/user-"))
	assert.True(t, strings.HasSuffix(url, "-my-face.jpg"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a-b-c", sanitize("A b_c"))
	assert.Equal(t, "photo", sanitize("!!!"))
	assert.Equal(t, "chef-2", sanitize("Chef 2"))
}

func TestRecordingPublisher(t *testing.T) {
	p := &RecordingPublisher{}
	e := NewEvent(EventMenuCreated, map[string]int{"id": 5})
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, LogPublisher{}.Publish(context.Background(), e))

	events := p.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventMenuCreated, events[0].Type)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].OccurredAt.IsZero())
}
