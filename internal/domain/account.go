package domain

import (
	"time"
)

type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

type Account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	ProfileImage string `json:"profileImage"`
	DateOfBirth  string `json:"dateOfBirth"`
	// 以下字段只对 HR 账号有意义
	CompanyName      string    `json:"companyName"`
	CompanyLogo      string    `json:"companyLogo"`
	PackageLimit     int32     `json:"packageLimit"`
	CurrentEmployees int32     `json:"currentEmployees"`
	CreatedAt        time.Time `json:"createdAt"`
	Version          int32     `json:"-"`
}

// RosterEmployee 是“我的员工”列表中的一项，带有该员工持有的资产数量
type RosterEmployee struct {
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	ProfileImage  string    `json:"profileImage"`
	AssetCount    int64     `json:"assetCount"`
	AffiliationAt time.Time `json:"affiliationDate"`
}
