package document

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// FromTextract converts Textract AnalyzeDocument blocks into a Stream.
// Children are the ids of every CHILD relationship, in order.
func FromTextract(blocks []types.Block) Stream {
	stream := make(Stream, 0, len(blocks))
	for _, tb := range blocks {
		b := Block{
			ID:     aws.ToString(tb.Id),
			Type:   Type(tb.BlockType),
			Text:   aws.ToString(tb.Text),
			Row:    int(aws.ToInt32(tb.RowIndex)),
			Column: int(aws.ToInt32(tb.ColumnIndex)),
		}
		for _, rel := range tb.Relationships {
			if rel.Type == types.RelationshipTypeChild {
				b.Children = append(b.Children, rel.Ids...)
			}
		}
		stream = append(stream, b)
	}
	return stream
}
