package storage

import (
	"strconv"

	"github.com/siamjuris/clauseindex/core"
)

// Record field names accepted by filter and update operations.
const (
	FieldID            = "id"
	FieldDocumentID    = "document_id"
	FieldLawName       = "law_name"
	FieldDocType       = "doc_type"
	FieldVersion       = "version"
	FieldEffectiveDate = "effective_date"
	FieldExpireDate    = "expire_date"
	FieldAnnounceDate  = "announce_date"
)

// RecordField returns the string value of the named field.
func RecordField(r *core.ChunkRecord, field string) (string, error) {
	switch field {
	case FieldID:
		return r.ID, nil
	case FieldDocumentID:
		return r.DocumentID, nil
	case FieldLawName:
		return r.LawName, nil
	case FieldDocType:
		return string(r.DocClass), nil
	case FieldVersion:
		return strconv.Itoa(r.Version), nil
	case FieldEffectiveDate:
		return r.EffectiveDate, nil
	case FieldExpireDate:
		return r.ExpireDate, nil
	case FieldAnnounceDate:
		return r.AnnounceDate, nil
	}
	return "", ErrUnknownField
}

// SetRecordField sets the named field to value. Only metadata fields may be
// written; id, document_id, and doc_type are immutable once indexed.
func SetRecordField(r *core.ChunkRecord, field, value string) error {
	switch field {
	case FieldLawName:
		r.LawName = value
	case FieldVersion:
		v, err := strconv.Atoi(value)
		if err != nil {
			return core.ErrInvalidVersion
		}
		r.Version = v
	case FieldEffectiveDate:
		r.EffectiveDate = value
	case FieldExpireDate:
		r.ExpireDate = value
	case FieldAnnounceDate:
		r.AnnounceDate = value
	default:
		return ErrUnknownField
	}
	return nil
}
