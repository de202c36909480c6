package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterStore is the part of the SSM client used to read configuration
type ParameterStore interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain
func NewParameterStore(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// MergeParameters copies every parameter under prefix into config.
// "/blog/prod/DB_PASSWORD" becomes the key "DB_PASSWORD". Values already set
// in config (the environment) win over the parameter store.
func MergeParameters(ctx context.Context, store ParameterStore, prefix string, config map[string]string) (int, error) {
	merged := 0
	paginator := ssm.NewGetParametersByPathPaginator(store, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return merged, fmt.Errorf("read parameters under %s: %w", prefix, err)
		}

		for _, param := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(param.Name)))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if _, exists := config[key]; exists {
				log.Debug().Str("key", key).Msg("environment overrides parameter store value")
				continue
			}
			config[key] = aws.ToString(param.Value)
			merged++
		}
	}
	return merged, nil
}
