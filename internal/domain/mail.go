package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type RequestDecisionMailData struct {
	EmployeeName string `json:"employeeName"`
	AssetName    string `json:"assetName"`
	CompanyName  string `json:"companyName"`
	Approved     bool   `json:"approved"`
}

type PaymentReceiptMailData struct {
	CompanyName   string `json:"companyName"`
	PackageName   string `json:"packageName"`
	Amount        int64  `json:"amount"`
	EmployeeLimit int32  `json:"employeeLimit"`
	TransactionID string `json:"transactionId"`
}
