package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"PRETTY":  "true",
		"ORIGINS": "https://a.dev, ,https://b.dev",
		"EMPTY":   "",
		"SLOW_MS": "250",
	}

	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(c, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(nil, "PORT", 8080))
	assert.True(t, GetBool(c, "PRETTY", false))
	assert.False(t, GetBool(c, "MISSING", false))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetStrings(c, "ORIGINS"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, 250*time.Millisecond, GetMillis(c, "SLOW_MS", time.Second))
	assert.Equal(t, time.Second, GetMillis(c, "MISSING", time.Second))
}

func TestSplit(t *testing.T) {
	key, value := split("DSN=host=db user=x")
	assert.Equal(t, "DSN", key)
	assert.Equal(t, "host=db user=x", value)

	key, value = split("FLAG")
	assert.Equal(t, "FLAG", key)
	assert.Equal(t, "", value)
}

type fakeParameterStore struct {
	pages [][]types.Parameter
	err   error
	calls int
}

func (f *fakeParameterStore) GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestMergeParameters(t *testing.T) {
	store := &fakeParameterStore{pages: [][]types.Parameter{
		{{Name: aws.String("/blog/prod/DB_PASSWORD"), Value: aws.String("secret")}},
		{{Name: aws.String("/blog/prod/port"), Value: aws.String("7000")}},
	}}
	c := map[string]string{"PORT": "8080"}

	merged, err := MergeParameters(context.Background(), store, "/blog/prod", c)
	require.NoError(t, err)
	assert.Equal(t, 1, merged)
	assert.Equal(t, "secret", c["DB_PASSWORD"])
	assert.Equal(t, "8080", c["PORT"], "environment wins over the parameter store")
	assert.Equal(t, 2, store.calls)
}

func TestMergeParametersError(t *testing.T) {
	store := &fakeParameterStore{err: errors.New("access denied")}
	_, err := MergeParameters(context.Background(), store, "/blog", map[string]string{})
	assert.ErrorContains(t, err, "access denied")
}
