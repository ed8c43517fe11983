package storage

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() S3Config {
	return S3Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "games",
		BaseEndpoint: "http://127.0.0.1:9000/",
	}
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})
}

func TestNewImageKey(t *testing.T) {
	now := time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)

	k1 := NewImageKey(now, ".png")
	k2 := NewImageKey(now, ".png")

	assert.Regexp(t, regexp.MustCompile(`^games/2025/6/9/[0-9a-f-]{36}\.png$`), k1)
	assert.NotEqual(t, k1, k2)
}

func TestPublicURL(t *testing.T) {
	s := NewImageStore(testConfig())
	assert.Equal(t, "http://127.0.0.1:9000/games/games/a.png", s.PublicURL("games/a.png"))

	cfg := testConfig()
	cfg.PublicBaseURL = "https://cdn.example.com/"
	s = NewImageStore(cfg)
	assert.Equal(t, "https://cdn.example.com/games/a.png", s.PublicURL("games/a.png"))
}

func TestPresignPut_RealSigner(t *testing.T) {
	cfg := testConfig()
	cfg.BaseEndpoint = "http://127.0.0.1:9000"
	s := NewImageStore(cfg)

	raw, err := s.PresignPut(context.Background(), "games/2025/1/1/x.png", "image/png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.True(t, strings.HasSuffix(u.Path, "/games/2025/1/1/x.png"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignPut_SeamsReceiveConfig(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	var in *s3.PutObjectInput
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, put *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		in = put
		return &v4.PresignedHTTPRequest{URL: "https://signed"}, nil
	}

	got, err := NewImageStore(testConfig()).PresignPut(context.Background(), "k.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://signed", got)
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "games", aws.ToString(in.Bucket))
	assert.Equal(t, "k.png", aws.ToString(in.Key))
	assert.Equal(t, "image/png", aws.ToString(in.ContentType))
}

func TestPresignPut_Errors(t *testing.T) {
	t.Run("config load fails", func(t *testing.T) {
		restoreSeams(t)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no creds")
		}

		_, err := NewImageStore(testConfig()).PresignPut(context.Background(), "k", "image/png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no creds")
	})

	t.Run("presign fails", func(t *testing.T) {
		restoreSeams(t)
		presignPutObject = func(pc *s3.PresignClient, ctx context.Context, put *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("sign failed")
		}

		_, err := NewImageStore(testConfig()).PresignPut(context.Background(), "k", "image/png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sign failed")
	})
}
