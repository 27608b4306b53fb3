package geo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KoTeHok22/Locus-sub001/internal/geo"
)

type stubSource struct {
	pos *geo.Position
	err error
}

func (s stubSource) Position(ctx context.Context) (*geo.Position, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pos, nil
}

type blockingSource struct{}

func (blockingSource) Position(ctx context.Context) (*geo.Position, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestProvider_CurrentLocation_NoSource(t *testing.T) {
	p := geo.NewProvider(nil)

	_, err := p.CurrentLocation(context.Background())

	assert.ErrorIs(t, err, geo.ErrUnsupported)
	assert.False(t, p.Available())
}

func TestProvider_CurrentLocation_Success(t *testing.T) {
	want := &geo.Position{Latitude: 55.7558, Longitude: 37.6173, Accuracy: 12}
	p := geo.NewProvider(stubSource{pos: want})

	got, err := p.CurrentLocation(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, p.Available())
}

func TestProvider_CurrentLocation_Timeout(t *testing.T) {
	p := geo.NewProviderWithTimeout(blockingSource{}, 10*time.Millisecond)

	_, err := p.CurrentLocation(context.Background())

	assert.ErrorIs(t, err, geo.ErrTimeout)
}

func TestProvider_CurrentLocation_KnownErrorsPassThrough(t *testing.T) {
	for _, sentinel := range []error{
		geo.ErrPermissionDenied,
		geo.ErrPositionUnavailable,
		geo.ErrTimeout,
	} {
		p := geo.NewProvider(stubSource{err: sentinel})

		_, err := p.CurrentLocation(context.Background())
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestProvider_CurrentLocation_UnknownErrorClassified(t *testing.T) {
	p := geo.NewProvider(stubSource{err: errors.New("gps chip went away")})

	_, err := p.CurrentLocation(context.Background())

	assert.ErrorIs(t, err, geo.ErrPositionUnavailable)
	assert.Contains(t, err.Error(), "gps chip went away")
}

func TestPosition_String(t *testing.T) {
	p := geo.Position{Latitude: 55.7558, Longitude: 37.6173}
	assert.Equal(t, "55.755800,37.617300", p.String())
}
