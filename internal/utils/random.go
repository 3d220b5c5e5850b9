package utils

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateEmailFromChineseName(chineseName string, domainName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	local := ""

	for _, p := range pinyinArray {
		local += p
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + domainName
}

func GenerateRandomEmployee(domainName string) *domain.Account {
	fullName := GenerateRandomChineseName()

	return &domain.Account{
		Email: GenerateEmailFromChineseName(fullName, domainName),
		Name:  fullName,
		Role:  domain.RoleEmployee,
	}
}

var productNames = []string{
	"ThinkPad 笔记本", "MacBook Pro", "显示器", "机械键盘", "无线鼠标",
	"人体工学椅", "升降桌", "降噪耳机", "门禁卡", "办公手机",
}
var productTypes = []string{"returnable", "non-returnable"}

func GenerateRandomAsset(hrEmail string) *domain.Asset {
	return &domain.Asset{
		HREmail:           hrEmail,
		ProductName:       productNames[rand.Intn(len(productNames))],
		ProductType:       productTypes[rand.Intn(len(productTypes))],
		AvailableQuantity: int32(rand.Intn(20) + 1),
	}
}

// GenerateRandomTransactionID 生成一个形如支付服务商交易号的随机 ID
func GenerateRandomTransactionID() string {
	return "pi_" + uuid.NewString()
}
