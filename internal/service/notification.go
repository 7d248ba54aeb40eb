package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/mail"
	"reflect"
	"strconv"
	"strings"

	"formation-feedback/backend/internal/model"
	"formation-feedback/backend/pkg/mailer"
)

// field 通知邮件中的一行"字段: 值"
type field struct {
	Name  string
	Value string
}

const emptyValue = "—"

var notificationHTML = template.Must(template.New("notification").Parse(`<h2>{{.Title}}</h2>
<table cellpadding="4" style="border-collapse:collapse">
{{range .Fields}}<tr><td style="color:#555">{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
`))

// renderNotification 将已入库的一行渲染为纯文本与 HTML 邮件
func renderNotification(profile *FormProfile, table string, row model.Row) (*mailer.Message, error) {
	r := row.Respondent()
	title := fmt.Sprintf("Nouvelle réponse (%s) : %s %s", table, r.Prenom, r.Nom)
	fields := rowFields(reflect.ValueOf(row))

	var text strings.Builder
	text.WriteString(title + "\n\n")
	for _, f := range fields {
		fmt.Fprintf(&text, "%s: %s\n", f.Name, f.Value)
	}

	var html bytes.Buffer
	err := notificationHTML.Execute(&html, struct {
		Title  string
		Fields []field
	}{title, fields})
	if err != nil {
		return nil, fmt.Errorf("渲染通知邮件失败 (%s): %w", profile.Name, err)
	}

	return &mailer.Message{
		Subject: title,
		Text:    text.String(),
		HTML:    html.String(),
		ReplyTo: replyTo(r.Email),
	}, nil
}

// replyTo 邮箱未做格式校验，只有可解析的地址才作为回复地址
func replyTo(email string) string {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return ""
	}
	return addr.Address
}

// rowFields 按声明顺序展开结构体字段（含嵌入结构体），以 json 标签作为字段名
func rowFields(v reflect.Value) []field {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var out []field
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if sf.Anonymous {
			out = append(out, rowFields(fv)...)
			continue
		}
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" || name == "id" || name == "created_at" {
			continue
		}
		out = append(out, field{Name: name, Value: display(fv)})
	}
	return out
}

func display(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return emptyValue
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return emptyValue
		}
		return v.String()
	case reflect.Int, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	default:
		return fmt.Sprint(v.Interface())
	}
}
