package scanning

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-tracker/internal/document"
)

// mockTextract is a mock implementation of TextractAPI
type mockTextract struct {
	input *textract.AnalyzeDocumentInput
	out   *textract.AnalyzeDocumentOutput
	err   error
}

func (m *mockTextract) AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return m.out, nil
}

var _ = Describe("Textract", func() {
	var (
		client      *mockTextract
		scanner     *Textract
		data        []byte
		contentType string
		stream      document.Stream
		err         error
	)

	BeforeEach(func() {
		client = &mockTextract{
			out: &textract.AnalyzeDocumentOutput{
				Blocks: []types.Block{
					{BlockType: types.BlockTypeLine, Id: aws.String("l1"), Text: aws.String("Cogent Communications"),
						Relationships: []types.Relationship{{Type: types.RelationshipTypeChild, Ids: []string{"w1", "w2"}}}},
					{BlockType: types.BlockTypeWord, Id: aws.String("w1"), Text: aws.String("Cogent")},
					{BlockType: types.BlockTypeWord, Id: aws.String("w2"), Text: aws.String("Communications")},
				},
			},
		}
		scanner = NewTextractWithClient(client)
		data = []byte("%PDF-1.7 fake")
		contentType = "application/pdf"
	})

	JustBeforeEach(func() {
		stream, err = scanner.ScanDocument(data, contentType)
	})

	When("the analysis succeeds", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should request form and table detection", func() {
			Expect(client.input.FeatureTypes).To(ConsistOf(types.FeatureTypeForms, types.FeatureTypeTables))
		})

		It("should send the PDF bytes unchanged", func() {
			Expect(client.input.Document.Bytes).To(Equal(data))
		})

		It("should convert the blocks", func() {
			Expect(stream).To(Equal(document.Stream{
				{ID: "l1", Type: document.TypeLine, Text: "Cogent Communications", Children: []string{"w1", "w2"}},
				{ID: "w1", Type: document.TypeWord, Text: "Cogent"},
				{ID: "w2", Type: document.TypeWord, Text: "Communications"},
			}))
		})
	})

	When("the analysis fails", func() {
		BeforeEach(func() {
			client.err = errors.New("throttled")
		})

		It("returns the wrapped error", func() {
			Expect(err).To(MatchError(ContainSubstring("analyzing document: throttled")))
		})
	})
})
