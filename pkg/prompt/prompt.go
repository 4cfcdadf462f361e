package prompt

import "strings"

// Template is the instruction given to the model. {context} receives the page text
// and {query} the question. The leading /no_think disables qwen3 reasoning output.
const Template = `/no_think 당신은 친절하고 전문적인 업무 지원 챗봇입니다.
아래 문맥정보를 바탕으로 질문에 한국어로 답변하십시오. 사용자가 이해하기 쉬운 단어를 사용해야 하며, 문맥정보에 없는 내용은 사용하지 마십시오.

## 문맥정보
{context}

## 사용자 질문
{query}`

// Build fills the template in a single pass, so markers inside the
// substituted text are left as they are.
func Build(context, query string) string {
	return strings.NewReplacer("{context}", context, "{query}", query).Replace(Template)
}
