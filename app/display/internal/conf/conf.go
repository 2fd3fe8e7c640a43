package conf

type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Digest *Digest `json:"digest"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Data struct {
	Database *Database `json:"database"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Digest 抓取与分析配置，未填写的字段使用 tech_digest 的默认值
type Digest struct {
	Listing     *Listing     `json:"listing"`
	Fetch       *Fetch       `json:"fetch"`
	Llm         *LLM         `json:"llm"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	// Schedule cron 表达式，为空时只能手动触发导入
	Schedule string `json:"schedule"`
}

type Listing struct {
	Url              string `json:"url"`
	Format           string `json:"format"`
	MaxArticles      int32  `json:"max_articles"`
	MaxSnippetLength int32  `json:"max_snippet_length"`
	Rules            *Rules `json:"rules"`
}

// Rules CSS 选择器，每一项按顺序回退
type Rules struct {
	Container string   `json:"container"`
	Title     []string `json:"title"`
	Link      []string `json:"link"`
	Snippet   []string `json:"snippet"`
	Body      []string `json:"body"`
}

type Fetch struct {
	UserAgent string `json:"user_agent"`
	Timeout   int32  `json:"timeout"`
}

type LLM struct {
	BaseUrl             string  `json:"base_url"`
	ApiKey              string  `json:"api_key"`
	Model               string  `json:"model"`
	Timeout             int32   `json:"timeout"`
	Temperature         float32 `json:"temperature"`
	MaxTokens           int32   `json:"max_tokens"`
	MaxPromptBodyLength int32   `json:"max_prompt_body_length"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
