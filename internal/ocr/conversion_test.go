package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// testImage renders a small solid image for conversion tests
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func encodePNG() []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, testImage())).To(Succeed())
	return buf.Bytes()
}

func encodeJPEG() []byte {
	var buf bytes.Buffer
	Expect(jpeg.Encode(&buf, testImage(), nil)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("PrepareImage", func() {
	When("the input is already PNG", func() {
		It("should pass the data through untouched", func() {
			data := encodePNG()
			out, err := PrepareImage(data, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(data))
		})
	})

	When("the input is JPEG", func() {
		It("should convert it to PNG", func() {
			out, err := PrepareImage(encodeJPEG(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			img, format, err := image.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
			Expect(img.Bounds().Dx()).To(Equal(8))
		})
	})

	When("the content type is missing", func() {
		It("should assume JPEG and convert", func() {
			out, err := PrepareImage(encodeJPEG(), "")
			Expect(err).NotTo(HaveOccurred())

			_, format, err := image.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
		})
	})

	When("the input is not an image at all", func() {
		It("returns the error", func() {
			_, err := PrepareImage([]byte("not an image"), "image/jpeg")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("isHEICFormat", func() {
	When("the data carries a heic ftyp box", func() {
		It("should detect it", func() {
			data := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
			data = append(data, make([]byte, 8)...)
			Expect(isHEICFormat(data)).To(BeTrue())
		})
	})

	When("the data is too short", func() {
		It("should not detect it", func() {
			Expect(isHEICFormat([]byte("ftyp"))).To(BeFalse())
		})
	})

	When("the data is a PNG", func() {
		It("should not detect it", func() {
			Expect(isHEICFormat(encodePNG())).To(BeFalse())
		})
	})
})

var _ = Describe("isHEICMimeType", func() {
	It("should match heic and heif types regardless of case", func() {
		Expect(isHEICMimeType("image/heic")).To(BeTrue())
		Expect(isHEICMimeType("IMAGE/HEIF")).To(BeTrue())
		Expect(isHEICMimeType(" image/heic ")).To(BeTrue())
	})

	It("should not match other image types", func() {
		Expect(isHEICMimeType("image/png")).To(BeFalse())
		Expect(isHEICMimeType("application/pdf")).To(BeFalse())
	})
})

var _ = Describe("EnhanceForOCR", func() {
	When("the input is a valid PNG", func() {
		It("should return a decodable PNG of the same size", func() {
			out, err := EnhanceForOCR(encodePNG())
			Expect(err).NotTo(HaveOccurred())

			img, format, err := image.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
			Expect(img.Bounds()).To(Equal(image.Rect(0, 0, 8, 8)))
		})
	})

	When("the input is not an image", func() {
		It("returns the error", func() {
			_, err := EnhanceForOCR([]byte("junk"))
			Expect(err).To(HaveOccurred())
		})
	})
})
