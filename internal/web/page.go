package web

import "html/template"

var pageTemplate = template.Must(template.New("mirror").Parse(pageHTML))

const pageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>voxchat</title>
  <meta name="viewport" content="width=device-width,initial-scale=1"/>
  <style>
    body{font-family:system-ui,Arial;margin:20px;background:#1b1b1f;color:#e6e6e6}
    .container{max-width:900px;margin:0 auto}
    .chat{min-height:380px;max-height:80vh;overflow:auto;background:#26262c;padding:12px;border-radius:10px}
    .msg{margin:8px 0;display:flex}
    .msg.user{justify-content:flex-end}
    .bubble{padding:10px 12px;border-radius:12px;max-width:78%;white-space:pre-wrap;background:#3a3a44}
    .msg.user .bubble{background:#4c4cd9;color:white}
    .muted{color:#8a8a93;font-size:13px;margin-top:8px}
  </style>
</head>
<body>
<div class="container">
  <h1>voxchat</h1>
  <div id="chat" class="chat">
{{range .Entries}}    <div class="msg {{.Role}}"><div class="bubble">{{.Text}}</div></div>
{{end}}  </div>
  <div class="muted">Read-only mirror of the terminal session.</div>
</div>
<script>
(function(){
  var chat = document.getElementById('chat');
  chat.scrollTop = chat.scrollHeight;

  var proto = location.protocol === 'https:' ? 'wss' : 'ws';
  var ws = new WebSocket(proto + '://' + location.host + '/ws');
  ws.onmessage = function(ev){
    var data = JSON.parse(ev.data);
    var msg = document.createElement('div');
    msg.className = 'msg ' + (data.role === 'user' ? 'user' : 'assistant');
    var bubble = document.createElement('div');
    bubble.className = 'bubble';
    bubble.textContent = data.text;
    msg.appendChild(bubble);
    chat.appendChild(msg);
    chat.scrollTop = chat.scrollHeight;
  };
})();
</script>
</body>
</html>
`
