// Package form 根据请求结构体的 form/binding 标签生成表单描述，供前端渲染空表单与编辑表单
package form

import (
	"reflect"
	"strings"
)

// Option 下拉选项
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Field 表单字段描述
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Multiple bool     `json:"multiple,omitempty"`
	Options  []Option `json:"options,omitempty"`
}

// Form 表单描述，Values 为编辑时的当前值
type Form struct {
	Fields []Field `json:"fields"`
	Values any     `json:"values,omitempty"`
}

// Describe 解析结构体字段；字段类型可用 input 标签覆盖，如 input:"textarea"
func Describe(v any) []Field {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, Describe(reflect.New(sf.Type).Interface())...)
			continue
		}
		name := strings.Split(sf.Tag.Get("form"), ",")[0]
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		field := Field{
			Name:     name,
			Label:    sf.Tag.Get("label"),
			Type:     inputType(sf),
			Required: strings.Contains(sf.Tag.Get("binding"), "required"),
			Multiple: sf.Type.Kind() == reflect.Slice,
		}
		if field.Label == "" {
			field.Label = labelOf(name)
		}
		fields = append(fields, field)
	}
	return fields
}

// New 生成空表单
func New(v any) Form {
	return Form{Fields: Describe(v)}
}

// WithOptions 为指定字段设置可选项
func (f Form) WithOptions(name string, options []Option) Form {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			f.Fields[i].Options = options
			f.Fields[i].Type = "select"
		}
	}
	return f
}

// WithValues 附加当前值，通常是填充后的表单结构体
func (f Form) WithValues(values any) Form {
	f.Values = values
	return f
}

func inputType(sf reflect.StructField) string {
	if t := sf.Tag.Get("input"); t != "" {
		return t
	}
	kind := sf.Type.Kind()
	if kind == reflect.Pointer {
		kind = sf.Type.Elem().Kind()
	}
	switch kind {
	case reflect.Bool:
		return "checkbox"
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64, reflect.Float64:
		return "number"
	default:
		return "text"
	}
}

func labelOf(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
