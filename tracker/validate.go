package tracker

import (
	"net/url"
	"strings"
	"time"
)

// Fields maps a field name to its validation message. These are meant to be
// rendered next to the offending input, never raised as Go errors.
type Fields map[string]string

// Validate applies the form-level rules. A nil result means the input may be
// handed to the collection store; the store itself does not re-validate.
func (in BookInput) Validate() Fields {
	errs := Fields{}

	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(in.Author) == "" {
		errs["author"] = "Author is required"
	}
	if in.CoverImage != "" && !validCoverURL(in.CoverImage) {
		errs["coverImage"] = "Cover image must be a valid URL"
	}
	if in.Status != "" && !in.Status.Valid() {
		errs["status"] = "Status must be to-read, reading or completed"
	}
	if in.Rating != 0 && (in.Rating < 1 || in.Rating > 5) {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	if in.PagesTotal < 0 {
		errs["pagesTotal"] = "Total pages must be a positive number"
	}
	if in.PagesRead < 0 {
		errs["pagesRead"] = "Pages read cannot be negative"
	}
	if in.PagesRead > 0 && in.PagesTotal > 0 && in.PagesRead > in.PagesTotal {
		errs["pagesRead"] = "Pages read cannot be greater than total pages"
	}
	if in.StartDate != "" && !validDate(in.StartDate) {
		errs["startDate"] = "Start date must be a valid date (YYYY-MM-DD)"
	}
	if in.FinishDate != "" && !validDate(in.FinishDate) {
		errs["finishDate"] = "Finish date must be a valid date (YYYY-MM-DD)"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks only the fields the patch actually sets, against the book
// it would be merged into (needed for the pagesRead/pagesTotal rule).
func (p BookPatch) Validate(current Book) Fields {
	merged := BookInput{
		Title:      current.Title,
		Author:     current.Author,
		CoverImage: current.CoverImage,
		Status:     current.Status,
		Rating:     current.Rating,
		StartDate:  current.StartDate,
		FinishDate: current.FinishDate,
		PagesTotal: current.PagesTotal,
		PagesRead:  current.PagesRead,
		Notes:      current.Notes,
	}
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Author != nil {
		merged.Author = *p.Author
	}
	if p.CoverImage != nil {
		merged.CoverImage = *p.CoverImage
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.Rating != nil {
		merged.Rating = *p.Rating
	}
	if p.StartDate != nil {
		merged.StartDate = *p.StartDate
	}
	if p.FinishDate != nil {
		merged.FinishDate = *p.FinishDate
	}
	if p.PagesTotal != nil {
		merged.PagesTotal = *p.PagesTotal
	}
	if p.PagesRead != nil {
		merged.PagesRead = *p.PagesRead
	}
	if p.Notes != nil {
		merged.Notes = *p.Notes
	}
	return merged.Validate()
}

func validCoverURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validDate(raw string) bool {
	_, err := time.Parse("2006-01-02", raw)
	return err == nil
}
