package checker

import "Sanca/internal/model"

// Registry 按技术索引的检查器集合
type Registry struct {
	tcp  []TCPChecker
	http []HTTPChecker
}

// NewRegistry 创建并注册全部检查器
func NewRegistry() *Registry {
	return &Registry{
		tcp: []TCPChecker{
			NewOpenSSHChecker(),
			NewMariaDBChecker(),
			NewMySQLChecker(),
			NewProFTPDChecker(),
			NewEximChecker(),
		},
		http: []HTTPChecker{
			NewHttpdChecker(),
			NewNginxChecker(),
			NewPHPChecker(),
			NewJQueryChecker(),
			NewWordPressChecker(),
			NewTinyMCEChecker(),
		},
	}
}

// TCPCheckers 返回指定技术的 TCP 检查器，techs 为空时返回全部
func (r *Registry) TCPCheckers(techs []model.Technology) []TCPChecker {
	wanted := technologySet(techs)
	var checkers []TCPChecker
	for _, c := range r.tcp {
		if wanted == nil || wanted[c.Technology()] {
			checkers = append(checkers, c)
		}
	}
	return checkers
}

// HTTPCheckers 返回指定技术的 HTTP 检查器，techs 为空时返回全部
func (r *Registry) HTTPCheckers(techs []model.Technology) []HTTPChecker {
	wanted := technologySet(techs)
	var checkers []HTTPChecker
	for _, c := range r.http {
		if wanted == nil || wanted[c.Technology()] {
			checkers = append(checkers, c)
		}
	}
	return checkers
}

// HasChecker 该技术是否有对应的检查器
func (r *Registry) HasChecker(tech model.Technology) bool {
	for _, c := range r.tcp {
		if c.Technology() == tech {
			return true
		}
	}
	for _, c := range r.http {
		if c.Technology() == tech {
			return true
		}
	}
	return false
}

func technologySet(techs []model.Technology) map[model.Technology]bool {
	if len(techs) == 0 {
		return nil
	}
	set := make(map[model.Technology]bool, len(techs))
	for _, t := range techs {
		set[t] = true
	}
	return set
}
