package param

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	in  *ssm.GetParameterInput
	out *ssm.GetParameterOutput
	err error
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.in = in
	return f.out, f.err
}

func TestEnvFetcher(t *testing.T) {
	f := &EnvFetcher{Lookup: func(name string) (string, bool) {
		if name == "STABILITY_API_KEY" {
			return "sk-env", true
		}
		return "", false
	}}

	v, err := f.Fetch(context.Background(), "STABILITY_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-env", v)

	v, err = f.Fetch(context.Background(), "OTHER")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestEnvFetcherDefaultsToProcessEnv(t *testing.T) {
	t.Setenv("PIXELPROXY_TEST_KEY", "from-env")
	v, err := (&EnvFetcher{}).Fetch(context.Background(), "PIXELPROXY_TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}

func TestCredentialGet(t *testing.T) {
	c := Credential{
		Fetcher: &EnvFetcher{Lookup: func(string) (string, bool) { return "secret", true }},
		Name:    "STABILITY_API_KEY",
	}
	v, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", v)
}

func TestParameterStoreFetcher(t *testing.T) {
	client := &fakeSSM{out: &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("sk-ssm")},
	}}
	f := &ParameterStoreFetcher{client: client}

	v, err := f.Fetch(context.Background(), "/pixelproxy/stability")
	require.NoError(t, err)
	assert.Equal(t, "sk-ssm", v)
	assert.Equal(t, "/pixelproxy/stability", aws.ToString(client.in.Name))
	assert.True(t, aws.ToBool(client.in.WithDecryption))
}

func TestParameterStoreFetcherNotFound(t *testing.T) {
	f := &ParameterStoreFetcher{client: &fakeSSM{err: &types.ParameterNotFound{}}}
	v, err := f.Fetch(context.Background(), "/missing")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestParameterStoreFetcherError(t *testing.T) {
	boom := errors.New("throttled")
	f := &ParameterStoreFetcher{client: &fakeSSM{err: boom}}
	_, err := f.Fetch(context.Background(), "/p")
	assert.ErrorIs(t, err, boom)
}
