package ocr

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
)

func strptr(s string) *string { return &s }

// ocrLine builds an Azure OCR line from a bounding box and words
func ocrLine(box string, words ...string) computervision.OcrLine {
	ws := make([]computervision.OcrWord, 0, len(words))
	for _, w := range words {
		ws = append(ws, computervision.OcrWord{Text: strptr(w)})
	}
	return computervision.OcrLine{
		BoundingBox: strptr(box),
		Words:       &ws,
	}
}

var _ = Describe("linesFromOCRResult", func() {
	When("the result contains positioned lines", func() {
		It("should flatten words into positioned lines", func() {
			regions := []computervision.OcrRegion{
				{Lines: &[]computervision.OcrLine{
					ocrLine("10,5,200,20", "ACME", "CORP"),
					ocrLine("10,40,180,18", "Total", "$9.25"),
				}},
			}
			lines := linesFromOCRResult(computervision.OcrResult{Regions: &regions})

			Expect(lines).To(HaveLen(2))
			Expect(lines[0].Text).To(Equal("ACME CORP"))
			Expect(lines[0].X).To(Equal(10))
			Expect(lines[0].Y).To(Equal(5))
			Expect(lines[0].Width).To(Equal(200))
			Expect(lines[0].Height).To(Equal(20))
			Expect(lines[1].Text).To(Equal("Total $9.25"))
		})
	})

	When("regions arrive out of reading order", func() {
		It("should sort lines top to bottom", func() {
			regions := []computervision.OcrRegion{
				{Lines: &[]computervision.OcrLine{ocrLine("10,80,100,20", "Total", "$9.25")}},
				{Lines: &[]computervision.OcrLine{ocrLine("10,5,100,20", "ACME", "CORP")}},
			}
			lines := linesFromOCRResult(computervision.OcrResult{Regions: &regions})

			Expect(lines).To(HaveLen(2))
			Expect(lines[0].Text).To(Equal("ACME CORP"))
			Expect(lines[1].Text).To(Equal("Total $9.25"))
		})
	})

	When("a line has no bounding box", func() {
		It("should drop it", func() {
			line := ocrLine("", "orphan")
			line.BoundingBox = nil
			regions := []computervision.OcrRegion{
				{Lines: &[]computervision.OcrLine{line}},
			}
			lines := linesFromOCRResult(computervision.OcrResult{Regions: &regions})

			Expect(lines).To(BeEmpty())
		})
	})

	When("the result has no regions", func() {
		It("should return no lines", func() {
			Expect(linesFromOCRResult(computervision.OcrResult{})).To(BeEmpty())
		})
	})
})

var _ = Describe("NewAzure", func() {
	When("the endpoint is missing", func() {
		It("returns the error", func() {
			_, err := NewAzure("", "key")
			Expect(err).To(HaveOccurred())
		})
	})

	When("the api key is missing", func() {
		It("returns the error", func() {
			_, err := NewAzure("https://example.cognitiveservices.azure.com", "")
			Expect(err).To(HaveOccurred())
		})
	})
})
