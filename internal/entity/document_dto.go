package entity

import "time"

// DocumentDTO is the wire representation of a document.
type DocumentDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadTime time.Time `json:"uploadTime"`
	Status     string    `json:"status"`
}

type UploadDocumentResponse struct {
	Message  string      `json:"message"`
	Document DocumentDTO `json:"document"`
}

type ListDocumentsResponse struct {
	Documents []DocumentDTO `json:"documents"`
}

type DocumentStatusResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
