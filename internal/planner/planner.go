// Package planner 将需要识别的技术集合展开为去重、有序的探测请求列表
package planner

import (
	"fmt"

	"Sanca/internal/model"
	"Sanca/internal/utils"
)

// Planner 请求规划器
type Planner struct {
	logger *utils.Logger
}

// NewPlanner 创建请求规划器
func NewPlanner() *Planner {
	return &Planner{logger: utils.NewLogger("planner")}
}

// Plan 为主URL和技术列表生成探测请求
//
// 同一URL只保留一项，FetchLinkedScripts 取所有技术请求的逻辑或。
// 与主URL相同的请求排在第一位，其余保持首次出现的顺序。
func (p *Planner) Plan(mainURL string, techs []model.Technology) ([]model.ProbeRequest, error) {
	var ordered []model.ProbeRequest
	index := make(map[string]int)

	for _, tech := range techs {
		requests, err := tech.URLRequests(mainURL)
		if err != nil {
			return nil, fmt.Errorf("规划 %s 的请求失败: %w", mainURL, err)
		}
		for _, req := range requests {
			if i, ok := index[req.URL]; ok {
				ordered[i].FetchLinkedScripts = ordered[i].FetchLinkedScripts || req.FetchLinkedScripts
				continue
			}
			index[req.URL] = len(ordered)
			ordered = append(ordered, req)
		}
	}

	if i, ok := index[mainURL]; ok && i > 0 {
		main := ordered[i]
		copy(ordered[1:i+1], ordered[:i])
		ordered[0] = main
	}

	p.logger.Debug("%s 共规划 %d 个请求", mainURL, len(ordered))
	return ordered, nil
}
