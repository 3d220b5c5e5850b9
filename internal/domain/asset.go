package domain

import (
	"time"
)

type Asset struct {
	ID                int64     `json:"id"`
	HREmail           string    `json:"hrEmail"`
	ProductName       string    `json:"productName"`
	ProductType       string    `json:"productType"`
	ProductImage      string    `json:"productImage"`
	AvailableQuantity int32     `json:"availableQuantity"`
	CreatedAt         time.Time `json:"createdAt"`
	Version           int32     `json:"-"`
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type Request struct {
	ID             int64         `json:"id"`
	AssetID        int64         `json:"assetId"`
	AssetName      string        `json:"assetName"`
	RequesterEmail string        `json:"requesterEmail"`
	RequesterName  string        `json:"requesterName"`
	HREmail        string        `json:"hrEmail"`
	RequestStatus  RequestStatus `json:"requestStatus"`
	RequestDate    time.Time     `json:"requestDate"`
	ApprovalDate   *time.Time    `json:"approvalDate"`
}

type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "assigned"
	AssignmentStatusReturned AssignmentStatus = "returned"
)

// Assignment 中的资产字段是分配时刻的快照，之后资产被修改或删除都不影响这条记录
type Assignment struct {
	ID             int64            `json:"id"`
	AssetID        int64            `json:"assetId"`
	AssetName      string           `json:"assetName"`
	AssetType      string           `json:"assetType"`
	AssetImage     string           `json:"assetImage"`
	EmployeeEmail  string           `json:"employeeEmail"`
	HREmail        string           `json:"hrEmail"`
	Status         AssignmentStatus `json:"status"`
	AssignmentDate time.Time        `json:"assignmentDate"`
	ReturnDate     *time.Time       `json:"returnDate"`
}

type Affiliation struct {
	ID              int64     `json:"id"`
	EmployeeEmail   string    `json:"employeeEmail"`
	HREmail         string    `json:"hrEmail"`
	CompanyName     string    `json:"companyName"`
	CompanyLogo     string    `json:"companyLogo"`
	Status          string    `json:"status"`
	AffiliationDate time.Time `json:"affiliationDate"`
}

const AffiliationStatusActive = "active"
