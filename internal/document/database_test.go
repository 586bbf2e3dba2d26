package document

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	newDoc := func(id string) *Document {
		return &Document{
			ID:            id,
			Filename:      "receipt.jpg",
			ContentType:   "image/jpeg",
			SizeBytes:     1024,
			Vendor:        "ACME CORP",
			Date:          "2024-01-15",
			Total:         "25.99",
			ExtractedText: "ACME CORP\nTotal $25.99",
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveDocument", func() {
		var (
			doc *Document
			err error
		)

		BeforeEach(func() {
			doc = newDoc("test-id")
		})

		JustBeforeEach(func() {
			err = db.SaveDocument(doc)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the document to the database", func() {
				saved, getErr := db.GetDocument("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})
		})
	})

	Describe("GetDocument", func() {
		var (
			docID string
			doc   *Document
			err   error
		)

		JustBeforeEach(func() {
			doc, err = db.GetDocument(docID)
		})

		When("document exists", func() {
			BeforeEach(func() {
				docID = "test-id"
				Expect(db.SaveDocument(newDoc("test-id"))).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct document ID", func() {
				Expect(doc.ID).To(Equal("test-id"))
			})

			It("should return the extracted fields", func() {
				Expect(doc.Vendor).To(Equal("ACME CORP"))
				Expect(doc.Date).To(Equal("2024-01-15"))
				Expect(doc.Total).To(Equal("25.99"))
			})

			It("should return the extracted text", func() {
				Expect(doc.ExtractedText).To(Equal("ACME CORP\nTotal $25.99"))
			})
		})

		When("document does not exist", func() {
			BeforeEach(func() {
				docID = "nonexistent"
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("document not found"))
			})
		})
	})

	Describe("ListDocuments", func() {
		var (
			docs []*Document
			err  error
		)

		JustBeforeEach(func() {
			docs, err = db.ListDocuments()
		})

		When("the database is empty", func() {
			It("should return an empty slice", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(docs).To(BeEmpty())
			})
		})

		When("documents exist", func() {
			BeforeEach(func() {
				Expect(db.SaveDocument(newDoc("id-1"))).NotTo(HaveOccurred())
				Expect(db.SaveDocument(newDoc("id-2"))).NotTo(HaveOccurred())
			})

			It("should return all documents", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(docs).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteDocument", func() {
		var (
			docID string
			err   error
		)

		JustBeforeEach(func() {
			err = db.DeleteDocument(docID)
		})

		When("document exists", func() {
			BeforeEach(func() {
				docID = "test-id"
				Expect(db.SaveDocument(newDoc("test-id"))).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the document", func() {
				_, getErr := db.GetDocument("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("document does not exist", func() {
			BeforeEach(func() {
				docID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("NewBoltDB", func() {
		When("the path is not writable", func() {
			It("returns the error", func() {
				_, err := NewBoltDB(filepath.Join(tmpDir, "missing", "nested", "test.db"))
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
