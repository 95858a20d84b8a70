package utils

import (
	"fmt"
	"math/rand"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
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

// GenerateEmailLocalPart 由中文名的拼音加上几位随机数字组成邮箱前缀
func GenerateEmailLocalPart(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	local := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		local += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local
}

func GenerateRandomUser(emailDomainName string) *domain.User {
	fullName := GenerateRandomChineseName()

	return &domain.User{
		ID:       uuid.NewString(),
		FullName: fullName,
		Email:    GenerateEmailLocalPart(fullName) + "@" + emailDomainName,
	}
}

var phonePrefixes = []string{"130", "135", "138", "150", "158", "177", "186", "199"}

func GenerateRandomPhone() string {
	phone := phonePrefixes[rand.Intn(len(phonePrefixes))]
	for i := 0; i < 8; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

var businessKinds = []string{"理发店", "美甲店", "按摩馆", "宠物美容", "摄影工作室", "牙科诊所"}
var streets = []string{"中山大道", "新港西路", "大学城外环", "天河路", "江南大道", "五山路"}

func GenerateRandomBusiness(owner *domain.User) *domain.Business {
	surname := []rune(owner.FullName)[0]

	return &domain.Business{
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("%c记%s", surname, businessKinds[rand.Intn(len(businessKinds))]),
		Address: fmt.Sprintf("%s%d号", streets[rand.Intn(len(streets))], rand.Intn(500)+1),
		Phone:   GenerateRandomPhone(),
	}
}

var serviceNames = []string{"基础套餐", "精致套餐", "尊享套餐", "快速护理", "深度护理", "首次体验", "会员专享"}

// GenerateRandomServices 生成互不重名的若干服务，时长为 15 分钟的倍数
func GenerateRandomServices(ownerID string, n int) []*domain.Service {
	names := append([]string{}, serviceNames...)
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	if n > len(names) {
		n = len(names)
	}

	services := make([]*domain.Service, n)
	for i := range services {
		services[i] = &domain.Service{
			OwnerID:     ownerID,
			Name:        names[i],
			Description: names[i] + "的服务说明",
			Duration:    int32(rand.Intn(6)+1) * 15,
			Price:       float64(rand.Intn(40)+4) * 5,
		}
	}
	return services
}

func GenerateRandomClient(ownerID string, emailDomainName string) *domain.Client {
	name := GenerateRandomChineseName()

	client := &domain.Client{
		OwnerID: ownerID,
		Name:    name,
		Phone:   GenerateRandomPhone(),
	}
	// 有一部分客户不留邮箱
	if rand.Intn(4) > 0 {
		client.Email = GenerateEmailLocalPart(name) + "@" + emailDomainName
	}
	return client
}

// GenerateRandomWeek 生成一周七天的日程，周日休息，其余每天有一定概率休息
func GenerateRandomWeek() []domain.DailySchedule {
	days := make([]domain.DailySchedule, len(domain.DaysOfWeek))
	slotDurations := []int32{15, 30, 60}

	for i, name := range domain.DaysOfWeek {
		start := domain.Clock((rand.Intn(3) + 8) * 60) // 8~10 点开门
		end := domain.Clock((rand.Intn(4) + 17) * 60)  // 17~20 点关门
		days[i] = domain.DailySchedule{
			Day:          name,
			StartTime:    start,
			EndTime:      end,
			IsWorkDay:    name != domain.Sunday && rand.Intn(6) > 0,
			SlotDuration: slotDurations[rand.Intn(len(slotDurations))],
		}
	}
	return days
}

// GenerateRandomAppointments 在某一天的营业时间内按时间顺序生成互不重叠的预约
func GenerateRandomAppointments(ownerID string, date civil.Date, day *domain.DailySchedule, clients []*domain.Client, services []*domain.Service) []*domain.Appointment {
	if !day.IsWorkDay || len(clients) == 0 || len(services) == 0 {
		return nil
	}

	appointments := []*domain.Appointment{}
	cursor := day.StartTime
	for {
		// 随机空出若干个时段
		cursor = cursor.Add(int(day.SlotDuration) * rand.Intn(3))
		service := services[rand.Intn(len(services))]
		end := cursor.Add(int(service.Duration))
		if end > day.EndTime {
			break
		}

		appointments = append(appointments, &domain.Appointment{
			OwnerID:   ownerID,
			ClientID:  clients[rand.Intn(len(clients))].ID,
			ServiceID: service.ID,
			Date:      date,
			StartTime: cursor,
			EndTime:   end,
		})
		cursor = end
	}
	return appointments
}
