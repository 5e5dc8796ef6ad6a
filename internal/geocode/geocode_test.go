package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma29/Dev-Camper-API/internal/cache"
)

type fakeClient struct {
	loc     *geo.Location
	addr    *geo.Address
	err     error
	delay   time.Duration
	lookups int
}

func (f *fakeClient) Geocode(address string) (*geo.Location, error) {
	f.lookups++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.loc, f.err
}

func (f *fakeClient) ReverseGeocode(lat, lng float64) (*geo.Address, error) {
	return f.addr, nil
}

func TestProvider_Geocode(t *testing.T) {
	client := &fakeClient{
		loc: &geo.Location{Lat: 42.3601, Lng: -71.0589},
		addr: &geo.Address{
			FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
			HouseNumber:      "233",
			Street:           "Bay State Rd",
			City:             "Boston",
			State:            "Massachusetts",
			StateCode:        "MA",
			Postcode:         "02215",
			CountryCode:      "us",
		},
	}

	res, err := NewProvider(client, time.Second).Geocode(context.Background(), "233 Bay State Road Boston MA 02215")
	require.NoError(t, err)

	assert.Equal(t, 42.3601, res.Latitude)
	assert.Equal(t, -71.0589, res.Longitude)
	assert.Equal(t, "233 Bay State Rd", res.Street)
	assert.Equal(t, "Boston", res.City)
	assert.Equal(t, "MA", res.StateCode)
	assert.Equal(t, "02215", res.Zipcode)
	assert.Equal(t, "US", res.CountryCode)
}

func TestProvider_NoResults(t *testing.T) {
	_, err := NewProvider(&fakeClient{}, time.Second).Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestProvider_ProviderError(t *testing.T) {
	boom := errors.New("quota exceeded")

	_, err := NewProvider(&fakeClient{err: boom}, time.Second).Geocode(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestProvider_Timeout(t *testing.T) {
	client := &fakeClient{loc: &geo.Location{}, delay: 200 * time.Millisecond}

	_, err := NewProvider(client, 10*time.Millisecond).Geocode(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCached_ReusesResultForSameAddress(t *testing.T) {
	client := &fakeClient{loc: &geo.Location{Lat: 1, Lng: 2}}
	g := NewCached(NewProvider(client, time.Second), cache.New[Result](time.Minute))

	first, err := g.Geocode(context.Background(), "  Boston MA ")
	require.NoError(t, err)

	second, err := g.Geocode(context.Background(), "boston ma")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.lookups)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}
