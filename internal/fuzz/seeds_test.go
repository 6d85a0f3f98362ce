package fuzztests

import (
	"testing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"int x;\n",
	"using UnityEngine;\npublic Transform Target;\n",
	"[SerializeField, SerializePrivateVariables]\npublic int Count, b = 0;\n",
	"public System.Collections.Generic.List<int> Items;\n",
	"float[] speeds = new float[3];\n",
	"void Start()\n{\n    Child = transform.Find(\"Child\");\n}\n",
	"void Update() { Count++; if (Count % 2 == 0) Child.Rotate(new Vector3(1, 0, 0), 10); }\n",
	"string s = @\"verbatim\"\"quote\"; char c = '\\n'; long l = 0xFFL;\n",
	"#region fields\n/* block */ int a; // line\n#endregion\n",
	"int x = (1 + 2) * 3 >> 1 ?? 0;\n",
	"using Alias = System.String;\nAlias name;\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
