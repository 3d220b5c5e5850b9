package domain

import (
	"time"
)

// Package 是只读的套餐目录项，价格单位为分
type Package struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	EmployeeLimit int32  `json:"employeeLimit"`
}

type Payment struct {
	ID            int64     `json:"id"`
	HREmail       string    `json:"hrEmail"`
	PackageName   string    `json:"packageName"`
	TransactionID string    `json:"transactionId"`
	Amount        int64     `json:"amount"`
	EmployeeLimit int32     `json:"employeeLimit"`
	PaymentDate   time.Time `json:"paymentDate"`
	Status        string    `json:"status"`
}
