package extraction

import (
	"github.com/google/generative-ai-go/genai"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("candidateText", func() {
	It("should join the text parts of the first candidate", func() {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{
					genai.Text(`{"transaction_name":`),
					genai.Text(`"Costco"}`),
				}},
			}},
		}

		text, err := candidateText(resp)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal(`{"transaction_name":"Costco"}`))
	})

	It("should treat an empty candidate list as unparseable", func() {
		_, err := candidateText(&genai.GenerateContentResponse{})
		Expect(err).To(MatchError(ErrUnparseable))
	})

	It("should treat a candidate without content as unparseable", func() {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}

		_, err := candidateText(resp)
		Expect(err).To(MatchError(ErrUnparseable))
	})

	It("should treat content with no parts as unparseable", func() {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}

		_, err := candidateText(resp)
		Expect(err).To(MatchError(ErrUnparseable))
	})
})
