package scanning

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/zombor/invoice-tracker/internal/document"
)

// TextractAPI is the subset of the Textract client used by the scanner
type TextractAPI interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

// TextractConfig configures the AWS client behind the Textract scanner
type TextractConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// Textract implements the Scanner interface using AWS Textract AnalyzeDocument
// with form and table detection
type Textract struct {
	client  TextractAPI
	timeout time.Duration
}

// NewTextract creates a Textract scanner. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain.
func NewTextract(cfg TextractConfig) (*Textract, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewTextractWithClient(textract.NewFromConfig(awsCfg)), nil
}

// NewTextractWithClient creates a Textract scanner over a custom client for testing
func NewTextractWithClient(client TextractAPI) *Textract {
	return &Textract{
		client:  client,
		timeout: 60 * time.Second,
	}
}

// ScanDocument analyzes the document and returns Textract's block stream
func (t *Textract) ScanDocument(data []byte, contentType string) (document.Stream, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	body, err := prepareForTextract(data, contentType)
	if err != nil {
		return nil, err
	}

	out, err := t.client.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
		Document:     &types.Document{Bytes: body},
		FeatureTypes: []types.FeatureType{types.FeatureTypeForms, types.FeatureTypeTables},
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing document: %w", err)
	}
	return document.FromTextract(out.Blocks), nil
}

// Close is a no-op, the AWS client holds no resources
func (t *Textract) Close() error {
	return nil
}
