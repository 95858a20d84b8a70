package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

type ClientStore interface {
	GetClientIDByPhone(ownerID, phone string) (int64, bool, error)
	CreateClient(c *domain.Client) error
}

// 表头中必须出现的列
var requiredHeaders = []string{"姓名", "手机"}

type ImportResult struct {
	Created int
	Skipped int
	Failed  int
}

// ImportClients 从 CSV 中导入某个商家的客户，表头为 姓名,手机,邮箱（邮箱可省略）
// 手机号已经存在的客户会被跳过，单行失败不影响其他行
func ImportClients(store ClientStore, ownerID string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	headerIndex := make(map[string]int, len(headers))
	for i, header := range headers {
		headerIndex[strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))] = i
	}
	for _, header := range requiredHeaders {
		if _, ok := headerIndex[header]; !ok {
			return nil, fmt.Errorf("没有找到 %s 列", header)
		}
	}

	column := func(row []string, header string) string {
		i, ok := headerIndex[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := &ImportResult{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return result, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		client := &domain.Client{
			OwnerID: ownerID,
			Name:    column(row, "姓名"),
			Phone:   column(row, "手机"),
			Email:   column(row, "邮箱"),
		}
		if client.Name == "" || client.Phone == "" {
			slog.Error("姓名或手机为空", "line", line)
			result.Failed++
			continue
		}

		_, exists, err := store.GetClientIDByPhone(ownerID, client.Phone)
		if err != nil {
			slog.Error("查询客户失败", "line", line, "error", err)
			result.Failed++
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		if err := store.CreateClient(client); err != nil {
			slog.Error("插入客户失败", "line", line, "error", err)
			result.Failed++
			continue
		}
		result.Created++
	}

	slog.Info("导入客户完成", "created", result.Created, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}
