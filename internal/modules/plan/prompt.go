// README: Prompt builder; embeds the trip request and the exact itinerary JSON shape.
package plan

import "fmt"

// noPreferenceSentinel replaces empty preferences so the prompt never carries
// dangling punctuation or an ambiguous blank.
const noPreferenceSentinel = "无特殊偏好"

// itinerarySchema is the literal response shape the normalizer expects back.
// Field names and nesting must stay in sync with the model types.
const itinerarySchema = `{
  "destination": "目的地",
  "days": 天数,
  "budget": 预算,
  "itinerary": [
    {
      "day": 第几天,
      "date": "日期",
      "activities": [
        {
          "time": "时间",
          "type": "景点/餐厅/住宿/交通",
          "name": "名称",
          "description": "描述",
          "location": "位置",
          "cost": 费用,
          "duration": "预计时长"
        }
      ],
      "totalCost": 当天总费用
    }
  ],
  "summary": {
    "totalCost": 总费用,
    "breakdown": {
      "transportation": 交通费用,
      "accommodation": 住宿费用,
      "food": 餐饮费用,
      "attractions": 景点费用,
      "other": 其他费用
    },
    "tips": ["实用建议1", "实用建议2"]
  }
}`

// BuildPrompt renders the generation prompt for req. It is pure and
// deterministic: the same request always yields the same prompt text.
func BuildPrompt(req TripRequest) string {
	prefs := req.Preferences
	if prefs == "" {
		prefs = noPreferenceSentinel
	}
	return fmt.Sprintf(`作为专业的旅行规划师，请为以下需求制定详细的旅行计划：

目的地：%s
天数：%d天
预算：%.0f元
同行人数：%d人
偏好：%s

请提供以下格式的详细计划（JSON格式）：
%s`, req.Destination, req.Days, req.Budget, req.Travelers, prefs, itinerarySchema)
}
